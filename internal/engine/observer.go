package engine

import (
	"log/slog"

	"github.com/rho-lang/rho/internal/rules"
	"github.com/rho-lang/rho/internal/term"
)

// Observer receives fire-and-forget notifications about rewrite
// progress. It is a side channel only: notifications are recover-guarded
// inside the driver, so an observer can neither abort nor alter the
// rewrite, and nothing it returns feeds back into the result.
type Observer interface {
	// Initial fires once, before the first rule scan at the root.
	Initial(expr term.Expr)

	// Rewrite fires after every successful rule application, before the
	// result is re-normalized.
	Rewrite(before, after term.Expr, rule rules.Rule, env Bindings)

	// Fold fires after every constant fold; op names the folded operator.
	Fold(before, after term.Expr, op string)

	// Final fires once, with the normal form and the total iteration
	// count, when the top-level rewrite is done.
	Final(expr term.Expr, iterations int)
}

// notify runs one observer callback, isolating the driver from panics.
func (r *Rewriter) notify(fn func(Observer)) {
	if r.observer == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			slog.Debug("trace observer panicked; rewrite unaffected", "panic", p)
		}
	}()
	fn(r.observer)
}
