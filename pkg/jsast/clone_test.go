package jsast

import "testing"

func sampleRegistration(scope *Scope) *ExprStmt {
	return MakeStmt(&Invocation{
		Qualifier: scope.Declare("dC", "defineClass").MakeRef(),
		Args: []Expression{
			&NumberLiteral{Value: 7},
			&NumberLiteral{Value: 0},
			scope.Declare("cM", "castMap").MakeRef(),
			scope.Declare("T_0", "T").MakeRef(),
		},
	})
}

func TestCloneStatementIsDeep(t *testing.T) {
	scope := NewScope()
	orig := sampleRegistration(scope)

	clone := CloneStatement(orig).(*ExprStmt)
	if clone == orig {
		t.Fatal("clone is the same statement")
	}

	// Mutating the clone's child list must not affect the original.
	inv := clone.Expr.(*Invocation)
	inv.Args = inv.Args[:1]
	if got := len(orig.Expr.(*Invocation).Args); got != 4 {
		t.Errorf("original has %d args after clone mutation, want 4", got)
	}
}

func TestCloneSharesNameIdentity(t *testing.T) {
	scope := NewScope()
	orig := sampleRegistration(scope)

	clone := CloneStatement(orig).(*ExprStmt)
	origRef := orig.Expr.(*Invocation).Qualifier.(*NameRef)
	cloneRef := clone.Expr.(*Invocation).Qualifier.(*NameRef)
	if origRef.Name != cloneRef.Name {
		t.Error("cloned reference lost its interned name identity")
	}
}

func TestCloneVars(t *testing.T) {
	scope := NewScope()
	orig := &Vars{Vars: []*Var{
		{Name: scope.Declare("a", "a"), Init: &StringLiteral{Value: "x"}},
		{Name: scope.Declare("b", "b")},
	}}

	clone := CloneStatement(orig).(*Vars)
	if clone == orig || clone.Vars[0] == orig.Vars[0] {
		t.Fatal("clone shares Var nodes with the original")
	}
	if !EqualStatements(orig, clone) {
		t.Error("clone is not structurally equal to the original")
	}
}

func TestEqualStatements(t *testing.T) {
	scope := NewScope()
	a := sampleRegistration(scope)
	b := CloneStatement(a)

	if !EqualStatements(a, b) {
		t.Error("statement not equal to its clone")
	}

	b.(*ExprStmt).Expr.(*Invocation).Args = b.(*ExprStmt).Expr.(*Invocation).Args[:2]
	if EqualStatements(a, b) {
		t.Error("statements with different arg lists compare equal")
	}

	if EqualStatements(a, &Empty{}) {
		t.Error("registration compares equal to the empty statement")
	}
}

func TestScopeInterning(t *testing.T) {
	scope := NewScope()
	a := scope.Declare("x", "x")
	b := scope.Declare("x", "longerX")
	if a != b {
		t.Error("re-declaring an identifier produced a distinct name")
	}
	if a.ShortIdent != "x" {
		t.Errorf("ShortIdent = %q, first declaration should win", a.ShortIdent)
	}
	if scope.Find("y") != nil {
		t.Error("Find returned a name that was never declared")
	}
}
