package fragment

import (
	"testing"

	"github.com/akoita/jsplit/pkg/jsast"
	"github.com/akoita/jsplit/pkg/liveness"
	"github.com/akoita/jsplit/pkg/splitter"
)

// testArchive builds a small but complete archive: one type T with a
// constructor, its registration statement, a function definition, a var
// group, and one split point's liveness.
func testArchive() *Archive {
	return &Archive{
		Names: []NameRecord{
			{Ident: "dC", Short: "defineClass"},   // 0
			{Ident: "$entry", Short: "$entry"},    // 1
			{Ident: "_", Short: "_"},              // 2
			{Ident: "T_0", Short: "T"},            // 3 ctor
			{Ident: "oL", Short: "onLoad"},        // 4
			{Ident: "vF", Short: "F"},             // 5 field var
			{Ident: "cM", Short: "castMap"},       // 6
		},
		Types: []TypeRecord{
			{Name: "T", Super: -1, NeedsVtable: true}, // 0
		},
		Methods: []MethodRecord{
			{Name: "T.C1", Enclosing: 0, Ctor: true, JsName: 3},            // 0
			{Name: "FragmentLoader.onLoad", Enclosing: -1, JsName: 4},      // 1
		},
		Fields: []FieldRecord{
			{Name: "F", Enclosing: 0, JsName: 5, StringInit: "f", HasStringInit: true}, // 0
		},
		Statements: []StmtRecord{
			{
				Kind: StmtExpr,
				Expr: &ExprRecord{
					Kind:      ExprInvocation,
					Qualifier: &ExprRecord{Kind: ExprNameRef, Name: 0},
					Args: []*ExprRecord{
						{Kind: ExprNumber, Value: 7},
						{Kind: ExprNumber, Value: 0},
						{Kind: ExprNameRef, Name: 6},
						{Kind: ExprNameRef, Name: 3},
					},
				},
				Type:       0,
				VtableInit: -1,
			},
			{
				Kind: StmtExpr,
				Expr: &ExprRecord{Kind: ExprFunction, Name: 3},
				Type: -1, VtableInit: -1,
			},
			{
				Kind: StmtVars,
				Vars: []VarRecord{
					{Name: 5, Init: &ExprRecord{Kind: ExprString, Str: "f"}},
				},
				Type: -1, VtableInit: -1,
			},
		},
		Handles: HandleRecord{RegisterFn: 0, Entry: 1, Underscore: 2, OnLoad: 1},
		SplitPoints: []LivenessRecord{
			{
				SplitPoint: 1,
				Name:       "settings",
				Types:      []int32{0},
				Methods:    []int32{0},
				Fields:     []int32{0},
				Strings:    []string{"f"},
			},
		},
	}
}

func TestDecode(t *testing.T) {
	d, err := Decode(testArchive())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(d.Prog.Types) != 1 || d.Prog.Types[0].Name != "T" {
		t.Fatalf("types = %+v", d.Prog.Types)
	}
	if len(d.Prog.Global) != 3 {
		t.Fatalf("got %d statements, want 3", len(d.Prog.Global))
	}

	// The registration statement must resolve to T and render correctly.
	reg := d.Prog.Global[0]
	if typ := d.Map.TypeForStatement(reg); typ != d.Prog.Types[0] {
		t.Errorf("TypeForStatement = %v, want T", typ)
	}
	if got, want := jsast.WriteStatement(reg), "dC(7,0,cM,T_0);"; got != want {
		t.Errorf("registration renders %q, want %q", got, want)
	}

	// The constructor name must resolve through the map.
	ctorName := d.Scope.Find("T_0")
	if ctorName == nil {
		t.Fatal("T_0 not interned")
	}
	ctor := d.Map.MethodForName(ctorName)
	if ctor == nil || !ctor.IsConstructor {
		t.Fatalf("MethodForName(T_0) = %+v", ctor)
	}

	if d.Handles.OnLoad == nil || d.Handles.OnLoad.Name != "FragmentLoader.onLoad" {
		t.Errorf("OnLoad handle = %+v", d.Handles.OnLoad)
	}

	if len(d.SplitPoints) != 1 {
		t.Fatalf("got %d split points, want 1", len(d.SplitPoints))
	}
	sp := d.SplitPoints[0]
	if sp.ID != 1 || sp.Name != "settings" {
		t.Errorf("split point = %+v", sp)
	}
	p := liveness.NewAnalysis(sp.Result)
	if !p.LiveType(d.Prog.Types[0]) {
		t.Error("T not live in decoded split point")
	}
	if !p.LiveMethod(ctor) {
		t.Error("constructor not live in decoded split point")
	}
	if !p.LiveString("f") {
		t.Error("string not live in decoded split point")
	}
}

func TestDecodedProgramExtracts(t *testing.T) {
	d, err := Decode(testArchive())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	ext := splitter.New(d.Prog, d.Map, d.Handles)
	current := liveness.NewAnalysis(d.SplitPoints[0].Result)

	out, err := ext.ExtractStatements(current, liveness.NothingLive{})
	if err != nil {
		t.Fatalf("ExtractStatements: %v", err)
	}
	// Registration, function definition, and the field var all ship in the
	// first fragment.
	if len(out) != 3 {
		t.Fatalf("got %d statements, want 3:\n%s", len(out), jsast.WriteStatements(out))
	}
}

func TestDecodeRejectsBadIndex(t *testing.T) {
	a := testArchive()
	a.Statements[0].Type = 99

	if _, err := Decode(a); err == nil {
		t.Error("expected error for out-of-range type index")
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	a := testArchive()
	a.Statements[0].Kind = 42

	if _, err := Decode(a); err == nil {
		t.Error("expected error for unknown statement kind")
	}
}
