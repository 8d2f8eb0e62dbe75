package engine

import (
	"log/slog"

	"github.com/rho-lang/rho/internal/term"
)

// Evaluate reduces an expression as far as env allows. Total: it never
// fails, it degrades.
//
// Constants evaluate to themselves. A symbol resolves to its data
// binding, or stays symbolic when unbound (or bound to an operation,
// which is not an expression). For a compound, every element including
// the head is evaluated first; operand evaluation is unconditional and
// is not short-circuited by head resolution. Then the original,
// unevaluated head symbol is looked up: if it names an operation, the
// operation is applied to the evaluated operands and its result
// returned; otherwise the reconstructed compound stands as a residual,
// partially-evaluated expression. An operation error also yields the
// residual - unknown operators and failed applications are not error
// conditions here.
func Evaluate(form term.Expr, env Bindings) term.Expr {
	switch f := form.(type) {
	case term.List:
		if len(f) == 0 {
			return f
		}

		evaluated := make(term.List, len(f))
		for i, elem := range f {
			evaluated[i] = Evaluate(elem, env)
		}

		if head, ok := f[0].(term.Sym); ok {
			if op, ok := env.Lookup(string(head)); ok {
				if fn, ok := op.(Operation); ok {
					result, err := fn(evaluated[1:])
					if err == nil {
						return result
					}
					slog.Debug("operation not applicable, keeping residual",
						"op", string(head), "err", err)
				}
			}
		}
		return evaluated

	case term.Sym:
		if b, ok := env.Lookup(string(f)); ok {
			if v, ok := b.(Value); ok {
				return v.Expr
			}
		}
		return f

	default: // Int, Float
		return form
	}
}
