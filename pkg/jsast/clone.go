package jsast

// Deep cloning of statements and expressions.
//
// Clones allocate fresh node structures but share *Name pointers with the
// original: names are interned identities, and sharing them is what keeps a
// cloned reference recognizable as a reference to the same entity. Cloning
// never mutates the source tree, so the master instruction stream can be
// minimized independently for any number of fragments.

// CloneStatement returns a deep copy of stat.
func CloneStatement(stat Statement) Statement {
	switch s := stat.(type) {
	case *ExprStmt:
		return &ExprStmt{Expr: CloneExpression(s.Expr)}
	case *Empty:
		return &Empty{}
	case *Vars:
		vars := make([]*Var, len(s.Vars))
		for i, v := range s.Vars {
			vars[i] = &Var{Name: v.Name, Init: CloneExpression(v.Init)}
		}
		return &Vars{Vars: vars}
	default:
		panic("jsast: CloneStatement: unknown statement type")
	}
}

// CloneExpression returns a deep copy of expr. A nil expression clones to nil.
func CloneExpression(expr Expression) Expression {
	switch e := expr.(type) {
	case nil:
		return nil
	case *NameRef:
		return &NameRef{Name: e.Name, Qualifier: CloneExpression(e.Qualifier)}
	case *Function:
		body := make([]Statement, len(e.Body))
		for i, s := range e.Body {
			body[i] = CloneStatement(s)
		}
		params := make([]*Name, len(e.Params))
		copy(params, e.Params)
		return &Function{Name: e.Name, Params: params, Body: body}
	case *Invocation:
		args := make([]Expression, len(e.Args))
		for i, a := range e.Args {
			args[i] = CloneExpression(a)
		}
		return &Invocation{Qualifier: CloneExpression(e.Qualifier), Args: args}
	case *Binary:
		return &Binary{Op: e.Op, Left: CloneExpression(e.Left), Right: CloneExpression(e.Right)}
	case *NumberLiteral:
		return &NumberLiteral{Value: e.Value}
	case *StringLiteral:
		return &StringLiteral{Value: e.Value}
	default:
		panic("jsast: CloneExpression: unknown expression type")
	}
}

// EqualStatements reports whether two statements are structurally equal.
// Name nodes compare by identity, everything else by structure.
func EqualStatements(a, b Statement) bool {
	switch sa := a.(type) {
	case *ExprStmt:
		sb, ok := b.(*ExprStmt)
		return ok && EqualExpressions(sa.Expr, sb.Expr)
	case *Empty:
		_, ok := b.(*Empty)
		return ok
	case *Vars:
		sb, ok := b.(*Vars)
		if !ok || len(sa.Vars) != len(sb.Vars) {
			return false
		}
		for i := range sa.Vars {
			if sa.Vars[i].Name != sb.Vars[i].Name {
				return false
			}
			if !EqualExpressions(sa.Vars[i].Init, sb.Vars[i].Init) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// EqualExpressions reports whether two expressions are structurally equal.
func EqualExpressions(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch ea := a.(type) {
	case *NameRef:
		eb, ok := b.(*NameRef)
		return ok && ea.Name == eb.Name && EqualExpressions(ea.Qualifier, eb.Qualifier)
	case *Function:
		eb, ok := b.(*Function)
		if !ok || ea.Name != eb.Name || len(ea.Params) != len(eb.Params) || len(ea.Body) != len(eb.Body) {
			return false
		}
		for i := range ea.Params {
			if ea.Params[i] != eb.Params[i] {
				return false
			}
		}
		for i := range ea.Body {
			if !EqualStatements(ea.Body[i], eb.Body[i]) {
				return false
			}
		}
		return true
	case *Invocation:
		eb, ok := b.(*Invocation)
		if !ok || !EqualExpressions(ea.Qualifier, eb.Qualifier) || len(ea.Args) != len(eb.Args) {
			return false
		}
		for i := range ea.Args {
			if !EqualExpressions(ea.Args[i], eb.Args[i]) {
				return false
			}
		}
		return true
	case *Binary:
		eb, ok := b.(*Binary)
		return ok && ea.Op == eb.Op && EqualExpressions(ea.Left, eb.Left) && EqualExpressions(ea.Right, eb.Right)
	case *NumberLiteral:
		eb, ok := b.(*NumberLiteral)
		return ok && ea.Value == eb.Value
	case *StringLiteral:
		eb, ok := b.(*StringLiteral)
		return ok && ea.Value == eb.Value
	default:
		return false
	}
}
