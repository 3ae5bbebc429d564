package splitter

import (
	"github.com/tliron/commonlog"

	"github.com/akoita/jsplit/pkg/jsast"
)

// StatementLogger observes the keep decision for every statement the
// extractor walks. Implementations must not panic; the extractor gives them
// no way to influence the pass.
type StatementLogger interface {
	LogStatement(stat jsast.Statement, kept bool)
}

type nopLogger struct{}

func (nopLogger) LogStatement(jsast.Statement, bool) {}

// CommonLogger is a StatementLogger that writes each decision to a
// commonlog logger at debug level.
type CommonLogger struct {
	log commonlog.Logger
}

// NewCommonLogger creates a StatementLogger over the named commonlog scope.
func NewCommonLogger(name string) *CommonLogger {
	return &CommonLogger{log: commonlog.GetLogger(name)}
}

func (l *CommonLogger) LogStatement(stat jsast.Statement, kept bool) {
	verdict := "drop"
	if kept {
		verdict = "keep"
	}
	l.log.Debugf("%s %s", verdict, jsast.WriteStatement(stat))
}
