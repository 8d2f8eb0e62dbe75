package engine

import (
	"github.com/rho-lang/rho/internal/term"
)

// Instantiate expands a replacement skeleton against an environment.
// Total: it always produces an expression.
//
// Atoms are literal, including bare symbols; nothing is substituted
// unless wrapped in an explicit (: expr) form, which evaluates expr
// under env and splices in the result. Both plain substitution (: x)
// and computed substitution (: (+ x 1)) go through the same evaluator.
func Instantiate(skeleton term.Expr, env Bindings) term.Expr {
	l, ok := skeleton.(term.List)
	if !ok {
		return skeleton
	}
	if len(l) == 0 {
		return l
	}

	if spliced, ok := spliceForm(l); ok {
		return Evaluate(spliced, env)
	}

	out := make(term.List, len(l))
	for i, elem := range l {
		out[i] = Instantiate(elem, env)
	}
	return out
}

// spliceForm recognizes (: expr). Unlike pattern markers the payload may
// be any expression, not just a symbol.
func spliceForm(l term.List) (term.Expr, bool) {
	if len(l) != 2 {
		return nil, false
	}
	head, ok := l[0].(term.Sym)
	if !ok || string(head) != MarkerSplice {
		return nil, false
	}
	return l[1], true
}
