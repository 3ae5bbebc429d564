package splitter

import (
	"github.com/akoita/jsplit/pkg/jsast"
	"github.com/akoita/jsplit/pkg/model"
)

// Statement recognition. Three shapes matter to the splitter: registration
// statements, var groups with removable declarations, and everything else.
// A statement that almost matches a shape (a call to the registration
// helper with too few arguments, say) is never an error; it falls through
// to generic handling.

// registrationTarget returns the type a registration statement introduces,
// or nil for anything else. Two forms are recognized: a call to the
// registration helper with the fixed (id, superId, castMap) prefix followed
// by constructor references, and the special assignment that stages the
// built-in String prototype.
func (e *Extractor) registrationTarget(stat jsast.Statement) *model.DeclaredType {
	es, ok := stat.(*jsast.ExprStmt)
	if !ok {
		return nil
	}

	switch expr := es.Expr.(type) {
	case *jsast.Invocation:
		ref, ok := expr.Qualifier.(*jsast.NameRef)
		if !ok || ref.Name != e.handles.RegisterFn {
			return nil
		}
		if len(expr.Args) < registrationPrefixLen {
			return nil
		}
		return e.m.TypeForStatement(stat)

	case *jsast.Binary:
		// "_ = String.prototype"
		if expr.Op != jsast.OpAssign {
			return nil
		}
		lhs, ok := expr.Left.(*jsast.NameRef)
		if !ok || lhs.Name != e.handles.Underscore {
			return nil
		}
		rhs, ok := expr.Right.(*jsast.NameRef)
		if !ok || rhs.Name.ShortIdent != "prototype" {
			return nil
		}
		qual, ok := rhs.Qualifier.(*jsast.NameRef)
		if !ok || qual.Name.ShortIdent != "String" {
			return nil
		}
		return e.m.TypeForStatement(stat)
	}

	return nil
}

// MethodFor returns the method stat defines or installs, or nil. It
// recognizes named function definitions whose name the map resolves to a
// method, and vtable-install statements.
func MethodFor(stat jsast.Statement, m model.NameMap) *model.Method {
	if es, ok := stat.(*jsast.ExprStmt); ok {
		if fn, ok := es.Expr.(*jsast.Function); ok && fn.Name != nil {
			if meth := m.MethodForName(fn.Name); meth != nil {
				return meth
			}
		}
	}
	return m.MethodForVtableInit(stat)
}

// vtableTypeNeeded returns the type whose registration must precede stat,
// when stat installs a vtable method; nil otherwise.
func (e *Extractor) vtableTypeNeeded(stat jsast.Statement) *model.DeclaredType {
	if meth := e.m.MethodForVtableInit(stat); meth != nil && meth.NeedsVtable {
		return meth.Enclosing
	}
	return nil
}
