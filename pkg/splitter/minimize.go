package splitter

import (
	"github.com/akoita/jsplit/pkg/jsast"
	"github.com/akoita/jsplit/pkg/liveness"
)

// registrationPrefixLen is the fixed argument prefix of a registration
// call: type id, supertype id, cast map. Constructor references follow.
const registrationPrefixLen = 3

// minimizeRegistration clones a registration statement and strips from its
// variable-length tail every constructor reference that is not newly live
// for this fragment. It returns the pruned clone and the count of retained
// references.
//
// The master stream is never touched: because alreadyLoaded grows
// monotonically across fragments, a stripped constructor is retained by the
// minimized registration of exactly one other fragment, the first in which
// it becomes live.
func (e *Extractor) minimizeRegistration(stat *jsast.ExprStmt, current, alreadyLoaded liveness.Predicate) (*jsast.ExprStmt, int) {
	clone := jsast.CloneStatement(stat).(*jsast.ExprStmt)

	inv, ok := clone.Expr.(*jsast.Invocation)
	if !ok {
		// The String-prototype form carries no constructor references.
		return clone, 0
	}

	liveCount := 0
	kept := make([]jsast.Expression, 0, len(inv.Args))
	kept = append(kept, inv.Args[:registrationPrefixLen]...)
	for _, arg := range inv.Args[registrationPrefixLen:] {
		ref, ok := arg.(*jsast.NameRef)
		if !ok {
			kept = append(kept, arg)
			continue
		}
		meth := e.m.MethodForName(ref.Name)
		if meth == nil || !meth.IsConstructor {
			kept = append(kept, arg)
			continue
		}
		if current.LiveMethod(meth) && !alreadyLoaded.LiveMethod(meth) {
			liveCount++
			kept = append(kept, arg)
		}
		// A reference to a constructor that is not newly live is dropped.
	}
	inv.Args = kept

	return clone, liveCount
}
