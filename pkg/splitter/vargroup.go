package splitter

import (
	"github.com/akoita/jsplit/pkg/jsast"
	"github.com/akoita/jsplit/pkg/liveness"
)

// containsRemovableVars reports whether stat is a var group holding at
// least one declaration that maps to a field and could therefore be pruned
// per fragment. Groups with only unmapped declarations go through generic
// handling instead.
func (e *Extractor) containsRemovableVars(stat jsast.Statement) bool {
	group, ok := stat.(*jsast.Vars)
	if !ok {
		return false
	}
	for _, v := range group.Vars {
		if e.m.FieldForName(v.Name) != nil {
			return true
		}
	}
	return false
}

// varLive answers liveness for a single declaration. Declarations mapping
// to a field follow that field; unmapped ones follow the miscellaneous
// flag.
func (e *Extractor) varLive(v *jsast.Var, p liveness.Predicate) bool {
	if f := e.m.FieldForName(v.Name); f != nil {
		return p.LiveField(f)
	}
	return p.MiscellaneousLive()
}

// filterVarGroup returns stat with only the newly-live declarations, in
// their original relative order. If nothing was pruned the original
// statement is returned unchanged; if everything was pruned the result is
// an Empty statement rather than an ill-formed empty group.
func (e *Extractor) filterVarGroup(stat *jsast.Vars, current, alreadyLoaded liveness.Predicate) jsast.Statement {
	var kept []*jsast.Var
	for _, v := range stat.Vars {
		if e.varLive(v, current) && !e.varLive(v, alreadyLoaded) {
			kept = append(kept, v)
		}
	}

	if len(kept) == len(stat.Vars) {
		return stat
	}
	if len(kept) > 0 {
		return &jsast.Vars{Vars: kept}
	}
	return &jsast.Empty{}
}
