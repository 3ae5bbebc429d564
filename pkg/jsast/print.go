package jsast

import (
	"strconv"
	"strings"
)

// Compact source rendering. Fragment payloads are rendered statement by
// statement with no whitespace beyond what the grammar requires, matching
// the density of the compiled output the splitter consumes.

// WriteStatements renders a statement list to compact JavaScript source,
// one statement per line.
func WriteStatements(stats []Statement) string {
	var sb strings.Builder
	for _, s := range stats {
		writeStatement(&sb, s)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteStatement renders a single statement to compact JavaScript source.
func WriteStatement(stat Statement) string {
	var sb strings.Builder
	writeStatement(&sb, stat)
	return sb.String()
}

func writeStatement(sb *strings.Builder, stat Statement) {
	switch s := stat.(type) {
	case *ExprStmt:
		writeExpression(sb, s.Expr)
		sb.WriteByte(';')
	case *Empty:
		sb.WriteByte(';')
	case *Vars:
		sb.WriteString("var ")
		for i, v := range s.Vars {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(v.Name.Ident)
			if v.Init != nil {
				sb.WriteByte('=')
				writeExpression(sb, v.Init)
			}
		}
		sb.WriteByte(';')
	default:
		panic("jsast: writeStatement: unknown statement type")
	}
}

func writeExpression(sb *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case *NameRef:
		if e.Qualifier != nil {
			writeExpression(sb, e.Qualifier)
			sb.WriteByte('.')
		}
		sb.WriteString(e.Name.Ident)
	case *Function:
		sb.WriteString("function")
		if e.Name != nil {
			sb.WriteByte(' ')
			sb.WriteString(e.Name.Ident)
		}
		sb.WriteByte('(')
		for i, p := range e.Params {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(p.Ident)
		}
		sb.WriteString("){")
		for _, s := range e.Body {
			writeStatement(sb, s)
		}
		sb.WriteByte('}')
	case *Invocation:
		writeExpression(sb, e.Qualifier)
		sb.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeExpression(sb, a)
		}
		sb.WriteByte(')')
	case *Binary:
		writeExpression(sb, e.Left)
		sb.WriteString(e.Op.String())
		writeExpression(sb, e.Right)
	case *NumberLiteral:
		sb.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
	case *StringLiteral:
		sb.WriteString(strconv.Quote(e.Value))
	default:
		panic("jsast: writeExpression: unknown expression type")
	}
}
