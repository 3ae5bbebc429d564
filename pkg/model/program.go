package model

import "github.com/akoita/jsplit/pkg/jsast"

// Program is the read-only pair of source-language model and emitted
// JavaScript the splitter is bound to for a whole compile. Global holds the
// complete ordered instruction stream; Fragments holds the finalized
// per-fragment statement blocks once splitting has run, for post-hoc scans.
type Program struct {
	Types []*DeclaredType

	Global    []jsast.Statement
	Fragments [][]jsast.Statement
}

// NameMap resolves between JavaScript names/statements and program
// entities. It is the splitter's single window into how the backend named
// and laid out the compiled output.
type NameMap interface {
	// MethodForName returns the method a name was generated for, or nil.
	MethodForName(n *jsast.Name) *Method

	// FieldForName returns the field a name was generated for, or nil.
	FieldForName(n *jsast.Name) *Field

	// TypeForStatement returns the type a statement materializes, or nil.
	// Registration statements and per-type setup statements map here.
	TypeForStatement(stat jsast.Statement) *DeclaredType

	// MethodForVtableInit returns the method a statement installs into a
	// prototype, or nil for statements that are not vtable installs.
	MethodForVtableInit(stat jsast.Statement) *Method

	// NameForMethod returns the JavaScript name generated for a method,
	// or nil if the method was pruned from the output.
	NameForMethod(m *Method) *jsast.Name
}

// TableMap is a NameMap backed by explicit tables. The archive decoder and
// the tests populate one; a real backend would register entries as it emits.
type TableMap struct {
	methods     map[*jsast.Name]*Method
	fields      map[*jsast.Name]*Field
	stmtTypes   map[jsast.Statement]*DeclaredType
	vtableInits map[jsast.Statement]*Method
	methodNames map[*Method]*jsast.Name
}

// NewTableMap creates an empty TableMap.
func NewTableMap() *TableMap {
	return &TableMap{
		methods:     make(map[*jsast.Name]*Method),
		fields:      make(map[*jsast.Name]*Field),
		stmtTypes:   make(map[jsast.Statement]*DeclaredType),
		vtableInits: make(map[jsast.Statement]*Method),
		methodNames: make(map[*Method]*jsast.Name),
	}
}

// PutMethod records that n is the generated name of m.
func (t *TableMap) PutMethod(n *jsast.Name, m *Method) {
	t.methods[n] = m
	t.methodNames[m] = n
}

// PutField records that n is the generated name of f.
func (t *TableMap) PutField(n *jsast.Name, f *Field) {
	t.fields[n] = f
}

// PutStatementType records that stat materializes typ.
func (t *TableMap) PutStatementType(stat jsast.Statement, typ *DeclaredType) {
	t.stmtTypes[stat] = typ
}

// PutVtableInit records that stat installs m into a prototype.
func (t *TableMap) PutVtableInit(stat jsast.Statement, m *Method) {
	t.vtableInits[stat] = m
}

func (t *TableMap) MethodForName(n *jsast.Name) *Method            { return t.methods[n] }
func (t *TableMap) FieldForName(n *jsast.Name) *Field              { return t.fields[n] }
func (t *TableMap) TypeForStatement(s jsast.Statement) *DeclaredType { return t.stmtTypes[s] }
func (t *TableMap) MethodForVtableInit(s jsast.Statement) *Method  { return t.vtableInits[s] }
func (t *TableMap) NameForMethod(m *Method) *jsast.Name            { return t.methodNames[m] }
