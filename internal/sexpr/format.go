package sexpr

import (
	"strings"

	"github.com/rho-lang/rho/internal/term"
)

// Format renders an expression in compact S-expression form.
func Format(e term.Expr) string {
	return term.String(e)
}

// FormatIndent renders an expression with one element per line for
// nested lists, two-space indentation. Short lists stay on one line.
func FormatIndent(e term.Expr) string {
	var b strings.Builder
	formatIndent(&b, e, 0)
	return b.String()
}

const inlineThreshold = 40

func formatIndent(b *strings.Builder, e term.Expr, depth int) {
	l, ok := e.(term.List)
	if !ok {
		b.WriteString(term.String(e))
		return
	}

	compact := term.String(l)
	if len(compact) <= inlineThreshold {
		b.WriteString(compact)
		return
	}

	b.WriteByte('(')
	for i, elem := range l {
		if i == 0 {
			formatIndent(b, elem, depth+1)
			continue
		}
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", depth+1))
		formatIndent(b, elem, depth+1)
	}
	b.WriteByte(')')
}
