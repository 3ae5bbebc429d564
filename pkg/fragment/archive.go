package fragment

import (
	"fmt"

	"github.com/akoita/jsplit/pkg/jsast"
	"github.com/akoita/jsplit/pkg/liveness"
	"github.com/akoita/jsplit/pkg/model"
	"github.com/akoita/jsplit/pkg/splitter"
)

// Archive is the flat, serializable form of a compiled program as the
// upstream backend hands it to the splitter: interned names, entity tables,
// the ordered instruction stream, the well-known runtime handles, and the
// liveness sets the reachability analysis computed per split point.
//
// Entities reference each other by table index; -1 means absent.
type Archive struct {
	Names       []NameRecord     `cbor:"1,keyasint"`
	Types       []TypeRecord     `cbor:"2,keyasint"`
	Methods     []MethodRecord   `cbor:"3,keyasint"`
	Fields      []FieldRecord    `cbor:"4,keyasint"`
	Statements  []StmtRecord     `cbor:"5,keyasint"`
	Handles     HandleRecord     `cbor:"6,keyasint"`
	SplitPoints []LivenessRecord `cbor:"7,keyasint"`
}

// NameRecord is an interned identifier.
type NameRecord struct {
	Ident string `cbor:"1,keyasint"`
	Short string `cbor:"2,keyasint"`
}

// TypeRecord is a declared type; Super indexes Types.
type TypeRecord struct {
	Name        string `cbor:"1,keyasint"`
	Super       int32  `cbor:"2,keyasint"`
	NeedsVtable bool   `cbor:"3,keyasint,omitempty"`
}

// MethodRecord is a method or constructor; Enclosing indexes Types, JsName
// indexes Names (-1 when the method was pruned from the output).
type MethodRecord struct {
	Name        string `cbor:"1,keyasint"`
	Enclosing   int32  `cbor:"2,keyasint"`
	Ctor        bool   `cbor:"3,keyasint,omitempty"`
	NeedsVtable bool   `cbor:"4,keyasint,omitempty"`
	JsName      int32  `cbor:"5,keyasint"`
}

// FieldRecord is a field; Enclosing indexes Types, JsName indexes Names.
type FieldRecord struct {
	Name          string `cbor:"1,keyasint"`
	Enclosing     int32  `cbor:"2,keyasint"`
	JsName        int32  `cbor:"3,keyasint"`
	StringInit    string `cbor:"4,keyasint,omitempty"`
	HasStringInit bool   `cbor:"5,keyasint,omitempty"`
}

// HandleRecord carries the well-known runtime entities: name indexes for
// the registration helper, the entry wrapper, and the prototype staging
// variable, plus the method index of the load-notification entry point.
type HandleRecord struct {
	RegisterFn int32 `cbor:"1,keyasint"`
	Entry      int32 `cbor:"2,keyasint"`
	Underscore int32 `cbor:"3,keyasint"`
	OnLoad     int32 `cbor:"4,keyasint"`
}

// LivenessRecord is the analysis result for one split point: the atoms
// live once this split point and all earlier ones have loaded. Atoms are
// table indexes; strings travel literally.
type LivenessRecord struct {
	SplitPoint    int      `cbor:"1,keyasint"`
	Name          string   `cbor:"2,keyasint"`
	Types         []int32  `cbor:"3,keyasint,omitempty"`
	Methods       []int32  `cbor:"4,keyasint,omitempty"`
	Fields        []int32  `cbor:"5,keyasint,omitempty"`
	WrittenFields []int32  `cbor:"6,keyasint,omitempty"`
	Strings       []string `cbor:"7,keyasint,omitempty"`
}

// Statement kinds.
const (
	StmtExpr  uint8 = 1
	StmtVars  uint8 = 2
	StmtEmpty uint8 = 3
)

// Expression kinds.
const (
	ExprNameRef    uint8 = 1
	ExprFunction   uint8 = 2
	ExprInvocation uint8 = 3
	ExprBinary     uint8 = 4
	ExprNumber     uint8 = 5
	ExprString     uint8 = 6
)

// StmtRecord is one statement of the instruction stream. Type and
// VtableInit carry the name-map associations for the statement itself.
type StmtRecord struct {
	Kind uint8       `cbor:"1,keyasint"`
	Expr *ExprRecord `cbor:"2,keyasint,omitempty"`
	Vars []VarRecord `cbor:"3,keyasint,omitempty"`

	Type       int32 `cbor:"4,keyasint"`
	VtableInit int32 `cbor:"5,keyasint"`
}

// VarRecord is one declaration inside a var-group statement.
type VarRecord struct {
	Name int32       `cbor:"1,keyasint"`
	Init *ExprRecord `cbor:"2,keyasint,omitempty"`
}

// ExprRecord is one expression node. Which fields are meaningful depends
// on Kind.
type ExprRecord struct {
	Kind uint8 `cbor:"1,keyasint"`

	Name      int32       `cbor:"2,keyasint,omitempty"`
	Qualifier *ExprRecord `cbor:"3,keyasint,omitempty"`

	Op    uint8       `cbor:"4,keyasint,omitempty"`
	Left  *ExprRecord `cbor:"5,keyasint,omitempty"`
	Right *ExprRecord `cbor:"6,keyasint,omitempty"`

	Value float64 `cbor:"7,keyasint,omitempty"`
	Str   string  `cbor:"8,keyasint,omitempty"`

	Params []int32       `cbor:"9,keyasint,omitempty"`
	Args   []*ExprRecord `cbor:"10,keyasint,omitempty"`
	Body   []StmtRecord  `cbor:"11,keyasint,omitempty"`
}

// SplitLiveness pairs a split point with its decoded analysis result.
type SplitLiveness struct {
	ID     int
	Name   string
	Result *liveness.AnalysisResult
}

// Decoded is a program archive rebuilt into the in-memory model the
// splitter operates on.
type Decoded struct {
	Prog        *model.Program
	Map         *model.TableMap
	Scope       *jsast.Scope
	Handles     splitter.Handles
	SplitPoints []SplitLiveness
}

// decoder tracks the tables being rebuilt.
type decoder struct {
	a       *Archive
	scope   *jsast.Scope
	names   []*jsast.Name
	types   []*model.DeclaredType
	methods []*model.Method
	fields  []*model.Field
	m       *model.TableMap
}

// Decode rebuilds an Archive into the program model, name map, and
// per-split-point predicates.
func Decode(a *Archive) (*Decoded, error) {
	d := &decoder{a: a, scope: jsast.NewScope(), m: model.NewTableMap()}

	d.names = make([]*jsast.Name, len(a.Names))
	for i, n := range a.Names {
		d.names[i] = d.scope.Declare(n.Ident, n.Short)
	}

	d.types = make([]*model.DeclaredType, len(a.Types))
	for i, t := range a.Types {
		d.types[i] = &model.DeclaredType{Name: t.Name, NeedsVtable: t.NeedsVtable}
	}
	for i, t := range a.Types {
		if t.Super < 0 {
			continue
		}
		super, err := index(d.types, t.Super, "type", "supertype")
		if err != nil {
			return nil, err
		}
		d.types[i].Super = super
	}

	d.methods = make([]*model.Method, len(a.Methods))
	for i, mr := range a.Methods {
		meth := &model.Method{Name: mr.Name, IsConstructor: mr.Ctor, NeedsVtable: mr.NeedsVtable}
		if mr.Enclosing >= 0 {
			enc, err := index(d.types, mr.Enclosing, "type", "method enclosing")
			if err != nil {
				return nil, err
			}
			meth.Enclosing = enc
		}
		d.methods[i] = meth
		if mr.JsName >= 0 {
			name, err := index(d.names, mr.JsName, "name", "method name")
			if err != nil {
				return nil, err
			}
			d.m.PutMethod(name, meth)
		}
	}

	d.fields = make([]*model.Field, len(a.Fields))
	for i, fr := range a.Fields {
		field := &model.Field{Name: fr.Name, StringInit: fr.StringInit, HasStringInit: fr.HasStringInit}
		if fr.Enclosing >= 0 {
			enc, err := index(d.types, fr.Enclosing, "type", "field enclosing")
			if err != nil {
				return nil, err
			}
			field.Enclosing = enc
		}
		d.fields[i] = field
		if fr.JsName >= 0 {
			name, err := index(d.names, fr.JsName, "name", "field name")
			if err != nil {
				return nil, err
			}
			d.m.PutField(name, field)
		}
	}

	global := make([]jsast.Statement, len(a.Statements))
	for i := range a.Statements {
		stat, err := d.decodeStatement(&a.Statements[i])
		if err != nil {
			return nil, fmt.Errorf("fragment: statement %d: %w", i, err)
		}
		global[i] = stat
	}

	handles, err := d.decodeHandles()
	if err != nil {
		return nil, err
	}

	splitPoints := make([]SplitLiveness, len(a.SplitPoints))
	for i, lr := range a.SplitPoints {
		sl, err := d.decodeLiveness(&lr)
		if err != nil {
			return nil, err
		}
		splitPoints[i] = sl
	}

	return &Decoded{
		Prog:        &model.Program{Types: d.types, Global: global},
		Map:         d.m,
		Scope:       d.scope,
		Handles:     handles,
		SplitPoints: splitPoints,
	}, nil
}

func (d *decoder) decodeHandles() (splitter.Handles, error) {
	var h splitter.Handles
	var err error
	if h.RegisterFn, err = index(d.names, d.a.Handles.RegisterFn, "name", "registration helper"); err != nil {
		return h, err
	}
	if h.Entry, err = index(d.names, d.a.Handles.Entry, "name", "entry wrapper"); err != nil {
		return h, err
	}
	if h.Underscore, err = index(d.names, d.a.Handles.Underscore, "name", "prototype variable"); err != nil {
		return h, err
	}
	if h.OnLoad, err = index(d.methods, d.a.Handles.OnLoad, "method", "load notification"); err != nil {
		return h, err
	}
	return h, nil
}

func (d *decoder) decodeStatement(r *StmtRecord) (jsast.Statement, error) {
	var stat jsast.Statement
	switch r.Kind {
	case StmtExpr:
		expr, err := d.decodeExpression(r.Expr)
		if err != nil {
			return nil, err
		}
		stat = jsast.MakeStmt(expr)
	case StmtVars:
		vars := make([]*jsast.Var, len(r.Vars))
		for i, vr := range r.Vars {
			name, err := index(d.names, vr.Name, "name", "var")
			if err != nil {
				return nil, err
			}
			init, err := d.decodeExpression(vr.Init)
			if err != nil {
				return nil, err
			}
			vars[i] = &jsast.Var{Name: name, Init: init}
		}
		stat = &jsast.Vars{Vars: vars}
	case StmtEmpty:
		stat = &jsast.Empty{}
	default:
		return nil, fmt.Errorf("unknown statement kind %d", r.Kind)
	}

	if r.Type >= 0 {
		typ, err := index(d.types, r.Type, "type", "statement type")
		if err != nil {
			return nil, err
		}
		d.m.PutStatementType(stat, typ)
	}
	if r.VtableInit >= 0 {
		meth, err := index(d.methods, r.VtableInit, "method", "vtable install")
		if err != nil {
			return nil, err
		}
		d.m.PutVtableInit(stat, meth)
	}
	return stat, nil
}

func (d *decoder) decodeExpression(r *ExprRecord) (jsast.Expression, error) {
	if r == nil {
		return nil, nil
	}
	switch r.Kind {
	case ExprNameRef:
		name, err := index(d.names, r.Name, "name", "name reference")
		if err != nil {
			return nil, err
		}
		qual, err := d.decodeExpression(r.Qualifier)
		if err != nil {
			return nil, err
		}
		return &jsast.NameRef{Name: name, Qualifier: qual}, nil
	case ExprFunction:
		fn := &jsast.Function{}
		if r.Name >= 0 {
			name, err := index(d.names, r.Name, "name", "function name")
			if err != nil {
				return nil, err
			}
			fn.Name = name
		}
		fn.Params = make([]*jsast.Name, len(r.Params))
		for i, p := range r.Params {
			param, err := index(d.names, p, "name", "parameter")
			if err != nil {
				return nil, err
			}
			fn.Params[i] = param
		}
		fn.Body = make([]jsast.Statement, len(r.Body))
		for i := range r.Body {
			stat, err := d.decodeStatement(&r.Body[i])
			if err != nil {
				return nil, err
			}
			fn.Body[i] = stat
		}
		return fn, nil
	case ExprInvocation:
		qual, err := d.decodeExpression(r.Qualifier)
		if err != nil {
			return nil, err
		}
		args := make([]jsast.Expression, len(r.Args))
		for i, a := range r.Args {
			arg, err := d.decodeExpression(a)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return &jsast.Invocation{Qualifier: qual, Args: args}, nil
	case ExprBinary:
		left, err := d.decodeExpression(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.decodeExpression(r.Right)
		if err != nil {
			return nil, err
		}
		return &jsast.Binary{Op: jsast.BinaryOp(r.Op), Left: left, Right: right}, nil
	case ExprNumber:
		return &jsast.NumberLiteral{Value: r.Value}, nil
	case ExprString:
		return &jsast.StringLiteral{Value: r.Str}, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %d", r.Kind)
	}
}

func (d *decoder) decodeLiveness(r *LivenessRecord) (SplitLiveness, error) {
	result := liveness.NewAnalysisResult()
	for _, i := range r.Types {
		typ, err := index(d.types, i, "type", "live type")
		if err != nil {
			return SplitLiveness{}, err
		}
		result.InstantiatedTypes[typ] = true
	}
	for _, i := range r.Methods {
		meth, err := index(d.methods, i, "method", "live method")
		if err != nil {
			return SplitLiveness{}, err
		}
		result.LiveMethods[meth] = true
	}
	for _, i := range r.Fields {
		field, err := index(d.fields, i, "field", "live field")
		if err != nil {
			return SplitLiveness{}, err
		}
		result.LiveFields[field] = true
	}
	for _, i := range r.WrittenFields {
		field, err := index(d.fields, i, "field", "written field")
		if err != nil {
			return SplitLiveness{}, err
		}
		result.WrittenFields[field] = true
	}
	for _, s := range r.Strings {
		result.LiveStrings[s] = true
	}
	return SplitLiveness{ID: r.SplitPoint, Name: r.Name, Result: result}, nil
}

// index bounds-checks a table reference.
func index[T any](table []T, i int32, kind, context string) (T, error) {
	var zero T
	if i < 0 || int(i) >= len(table) {
		return zero, fmt.Errorf("fragment: %s index %d out of range for %s", kind, i, context)
	}
	return table[i], nil
}
