// Package liveness defines the predicates the splitter consults to decide
// which program atoms a fragment must carry.
//
// Liveness here is not the intuitive notion: an atom is live for a fragment
// when it can only be instantiated or executed once that fragment has
// loaded. Loading a fragment can expand what other, already-downloaded code
// may do, so a type can be dead for a fragment while one of its
// constructors is live for it.
//
// Any predicate supplied to the splitter must satisfy the load-order
// dependencies: a live type implies its live supertype, a live instance
// method implies its live enclosing type, a class literal implies its
// constituent strings, and a field statically initialized to a string
// implies that string. The splitter relies on these properties and does not
// re-derive them.
package liveness

import "github.com/akoita/jsplit/pkg/model"

// Predicate answers liveness for the four atom kinds plus the
// miscellaneous fallback used for statements the splitter does not
// recognize as belonging to any particular atom. Implementations are
// immutable and may be shared across concurrent extraction calls.
type Predicate interface {
	LiveType(t *model.DeclaredType) bool
	LiveField(f *model.Field) bool
	LiveMethod(m *model.Method) bool
	LiveString(s string) bool

	// MiscellaneousLive reports whether unrecognized statements should be
	// considered live. Almost always true; false only for NothingLive.
	MiscellaneousLive() bool
}

// AnalysisResult carries the sets a reachability analysis computed for one
// loaded-fragment state. Computing these sets is the analysis's job; the
// splitter only reads them.
type AnalysisResult struct {
	InstantiatedTypes map[*model.DeclaredType]bool
	LiveMethods       map[*model.Method]bool
	LiveFields        map[*model.Field]bool

	// WrittenFields captures fields that are only ever written: their
	// storage must still exist even though no live read was found.
	WrittenFields map[*model.Field]bool

	LiveStrings map[string]bool
}

// NewAnalysisResult creates an AnalysisResult with empty sets.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		InstantiatedTypes: make(map[*model.DeclaredType]bool),
		LiveMethods:       make(map[*model.Method]bool),
		LiveFields:        make(map[*model.Field]bool),
		WrittenFields:     make(map[*model.Field]bool),
		LiveStrings:       make(map[string]bool),
	}
}

// Analysis is a Predicate backed by an AnalysisResult.
type Analysis struct {
	result *AnalysisResult
}

// NewAnalysis wraps an AnalysisResult in a Predicate.
func NewAnalysis(result *AnalysisResult) *Analysis {
	return &Analysis{result: result}
}

func (a *Analysis) LiveType(t *model.DeclaredType) bool {
	return a.result.InstantiatedTypes[t]
}

func (a *Analysis) LiveField(f *model.Field) bool {
	return a.result.LiveFields[f] || a.result.WrittenFields[f]
}

func (a *Analysis) LiveMethod(m *model.Method) bool {
	return a.result.LiveMethods[m]
}

func (a *Analysis) LiveString(s string) bool {
	return a.result.LiveStrings[s]
}

func (a *Analysis) MiscellaneousLive() bool {
	return true
}

// NothingLive is the Predicate where no atom is live, used as the
// already-loaded side when extracting the very first fragment.
type NothingLive struct{}

func (NothingLive) LiveType(*model.DeclaredType) bool { return false }
func (NothingLive) LiveField(*model.Field) bool       { return false }
func (NothingLive) LiveMethod(*model.Method) bool     { return false }
func (NothingLive) LiveString(string) bool            { return false }
func (NothingLive) MiscellaneousLive() bool           { return false }
