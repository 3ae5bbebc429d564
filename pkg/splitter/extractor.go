// Package splitter implements the fragment-extraction pass of the
// code-splitting backend. Given the complete emitted instruction stream and
// two liveness predicates (what must run once the fragment loads, and what
// earlier fragments already guarantee), it selects the minimal ordered
// subsequence of statements the fragment has to ship.
package splitter

import (
	"fmt"

	"github.com/akoita/jsplit/pkg/jsast"
	"github.com/akoita/jsplit/pkg/liveness"
	"github.com/akoita/jsplit/pkg/model"
)

// Handles are the well-known runtime entities the splitter recognizes,
// injected once at construction instead of re-resolved by name per call.
type Handles struct {
	// RegisterFn is the runtime helper whose calls register a type and its
	// constructor references.
	RegisterFn *jsast.Name

	// Entry is the execution-entry wrapper function.
	Entry *jsast.Name

	// Underscore is the prototype staging variable assigned by per-type
	// setup code.
	Underscore *jsast.Name

	// OnLoad is the fragment-loaded notification entry point.
	OnLoad *model.Method
}

// Extractor extracts fragments out of a compiled program. It is constructed
// once per compile, holds no mutable state across calls, and never mutates
// the program it is bound to: statements needing pruning are deep-cloned
// first. Distinct fragments may therefore be extracted concurrently.
type Extractor struct {
	prog    *model.Program
	m       model.NameMap
	handles Handles
	logger  StatementLogger
}

// New creates an Extractor over a program and its name map.
func New(prog *model.Program, m model.NameMap, handles Handles) *Extractor {
	return &Extractor{
		prog:    prog,
		m:       m,
		handles: handles,
		logger:  nopLogger{},
	}
}

// SetStatementLogger installs a diagnostic logger invoked once per original
// statement with the (possibly minimized) statement and the keep decision.
func (e *Extractor) SetStatementLogger(logger StatementLogger) {
	if logger == nil {
		logger = nopLogger{}
	}
	e.logger = logger
}

// ExtractStatements assumes everything described by alreadyLoaded has been
// downloaded and returns the statements needed so that everything described
// by current can also run. The caller must supply predicates where current
// covers strictly more live code than alreadyLoaded.
//
// Output preserves the stream's relative order, with one exception: a
// type's registration statement that was not independently selected is
// hoisted to sit immediately before the first vtable-install statement that
// requires it.
func (e *Extractor) ExtractStatements(current, alreadyLoaded liveness.Predicate) ([]jsast.Statement, error) {
	var extracted []jsast.Statement

	// The type whose vtable installs are currently valid, and the single
	// deferred registration that may yet be needed by a later install.
	var currentVtableType *model.DeclaredType
	var pending pendingRegistration

	for _, original := range e.prog.Global {
		stat := original

		var keep bool
		regType := e.registrationTarget(stat)
		switch {
		case regType != nil:
			minimized, liveCtors := e.minimizeRegistration(stat.(*jsast.ExprStmt), current, alreadyLoaded)
			newlyLiveType := current.LiveType(regType) && !alreadyLoaded.LiveType(regType)
			if newlyLiveType || liveCtors > 0 {
				stat = minimized
				keep = true
			} else {
				pending.put(regType, minimized)
				keep = false
			}
		case e.containsRemovableVars(stat):
			stat = e.filterVarGroup(stat.(*jsast.Vars), current, alreadyLoaded)
			_, empty := stat.(*jsast.Empty)
			keep = !empty
		default:
			keep = e.statementLive(stat, current) && !e.statementLive(stat, alreadyLoaded)
		}

		e.logger.LogStatement(stat, keep)

		if !keep {
			continue
		}
		if regType != nil {
			currentVtableType = regType
		}
		if needed := e.vtableTypeNeeded(stat); needed != nil && needed != currentVtableType {
			reg, err := pending.take(needed)
			if err != nil {
				return nil, err
			}
			extracted = append(extracted, reg)
			currentVtableType = needed
		}
		extracted = append(extracted, stat)
	}

	return extracted, nil
}

// statementLive answers liveness for a statement under one predicate. A
// statement tied to a type follows that type; one that defines or installs
// a method follows the method, additionally requiring a live enclosing type
// for vtable methods; anything unrecognized follows the miscellaneous flag,
// a deliberately conservative default.
func (e *Extractor) statementLive(stat jsast.Statement, p liveness.Predicate) bool {
	if typ := e.m.TypeForStatement(stat); typ != nil {
		// Code only needed once the type is instantiable.
		return p.LiveType(typ)
	}

	if meth := MethodFor(stat, e.m); meth != nil {
		if !p.LiveMethod(meth) {
			return false
		}
		return !meth.NeedsVtable || p.LiveType(meth.Enclosing)
	}

	return p.MiscellaneousLive()
}

// CreateOnLoadedCall builds the single statement a fragment ends with: an
// entry-wrapped call to the fragment-loaded notification entry point with
// the split point id as its only argument.
func (e *Extractor) CreateOnLoadedCall(splitPoint int) ([]jsast.Statement, error) {
	name := e.m.NameForMethod(e.handles.OnLoad)
	if name == nil {
		return nil, fmt.Errorf("splitter: load-notification method %s has no emitted name", e.handles.OnLoad.Name)
	}
	call := &jsast.Invocation{
		Qualifier: e.wrapWithEntry(name.MakeRef()),
		Args:      []jsast.Expression{&jsast.NumberLiteral{Value: float64(splitPoint)}},
	}
	return []jsast.Statement{jsast.MakeStmt(call)}, nil
}

// wrapWithEntry wraps an expression in a call to the entry function.
func (e *Extractor) wrapWithEntry(exp jsast.Expression) *jsast.Invocation {
	return &jsast.Invocation{
		Qualifier: e.handles.Entry.MakeRef(),
		Args:      []jsast.Expression{exp},
	}
}

// MethodsInOutput scans the finalized fragment blocks and returns every
// method whose defining or installing statement is still physically
// present, surviving any later inlining and pruning.
func (e *Extractor) MethodsInOutput() map[*model.Method]bool {
	methods := make(map[*model.Method]bool)
	for _, block := range e.prog.Fragments {
		for _, stat := range block {
			if meth := MethodFor(stat, e.m); meth != nil {
				methods[meth] = true
			}
		}
	}
	return methods
}
