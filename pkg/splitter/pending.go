package splitter

import (
	"errors"
	"fmt"

	"github.com/akoita/jsplit/pkg/jsast"
	"github.com/akoita/jsplit/pkg/model"
)

// ErrPendingMismatch reports that a vtable-install statement required a
// type's registration but the pending buffer did not hold it. The
// instruction stream and the supplied predicates are inconsistent; the
// enclosing compile cannot proceed.
var ErrPendingMismatch = errors.New("pending registration mismatch")

// pendingRegistration is the one-slot buffer for a registration statement
// that was dropped from immediate output but may still be needed ahead of a
// later vtable install. Two states: idle (typ nil) and pending. By
// construction at most one registration is ever outstanding; putting a new
// one simply replaces a stale entry that no install ended up needing.
type pendingRegistration struct {
	typ  *model.DeclaredType
	stmt jsast.Statement
}

func (p *pendingRegistration) put(typ *model.DeclaredType, stmt jsast.Statement) {
	p.typ = typ
	p.stmt = stmt
}

// take returns the buffered registration for typ and resets the buffer to
// idle. Any disagreement between typ and the buffer contents is fatal.
func (p *pendingRegistration) take(typ *model.DeclaredType) (jsast.Statement, error) {
	if p.typ == nil {
		return nil, fmt.Errorf("splitter: %w: need %s, nothing pending", ErrPendingMismatch, typ.Name)
	}
	if p.typ != typ {
		return nil, fmt.Errorf("splitter: %w: need %s, have %s", ErrPendingMismatch, typ.Name, p.typ.Name)
	}
	stmt := p.stmt
	p.typ = nil
	p.stmt = nil
	return stmt, nil
}
