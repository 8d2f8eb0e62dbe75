package engine

import (
	"log/slog"

	"github.com/rho-lang/rho/internal/rules"
	"github.com/rho-lang/rho/internal/term"
)

// DefaultMaxIterations bounds the work a single rewrite may do. The cap
// is a safety valve against non-convergent rule sets, not a convergence
// guarantee: reaching it stops rewriting and returns the expression in
// whatever state it reached.
const DefaultMaxIterations = 1000

// Rewriter applies an ordered rule set to expressions. Per node it tries
// rules in declaration order (first match wins), then constant folding,
// then recurses into children, looping until nothing changes.
//
// The caller's rule slice is copied at construction; the engine never
// mutates a supplied rule set, and later changes by the caller do not
// affect an existing Rewriter. Callers that synthesize new rules (for
// example from an external inference process) build a new Rewriter from
// the extended set and retry.
type Rewriter struct {
	rules         rules.RuleSet
	maxIterations int
	folding       bool
	observer      Observer
	prelude       Bindings
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithMaxIterations overrides the iteration budget.
func WithMaxIterations(n int) Option {
	return func(r *Rewriter) {
		r.maxIterations = n
	}
}

// WithConstantFolding enables or disables arithmetic folding of
// all-constant compounds. Enabled by default.
func WithConstantFolding(on bool) Option {
	return func(r *Rewriter) {
		r.folding = on
	}
}

// WithObserver attaches a trace observer.
func WithObserver(o Observer) Option {
	return func(r *Rewriter) {
		r.observer = o
	}
}

// WithPrelude seeds every match environment with the given bindings,
// typically Prelude(), so (: ...) skeleton forms can compute with the
// arithmetic operations. Without it environments start empty and such
// forms degrade to residual expressions.
func WithPrelude(env Bindings) Option {
	return func(r *Rewriter) {
		r.prelude = env
	}
}

// New builds a Rewriter over rs. The slice is copied.
func New(rs rules.RuleSet, opts ...Option) *Rewriter {
	var rsCopy rules.RuleSet
	if rs != nil {
		rsCopy = make(rules.RuleSet, len(rs))
		copy(rsCopy, rs)
	}

	r := &Rewriter{
		rules:         rsCopy,
		maxIterations: DefaultMaxIterations,
		folding:       true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Outcome reports how a rewrite finished. The expression alone does not
// distinguish convergence from cap exhaustion; callers that care read
// Converged here.
type Outcome struct {
	Iterations int
	Converged  bool
}

// Rewrite normalizes expr and returns the result.
func (r *Rewriter) Rewrite(expr term.Expr) term.Expr {
	out, _ := r.Result(expr)
	return out
}

// Result normalizes expr and additionally reports the outcome.
func (r *Rewriter) Result(expr term.Expr) (term.Expr, Outcome) {
	rn := &run{rw: r}

	r.notify(func(o Observer) { o.Initial(expr) })

	out := rn.simplify(expr)

	r.notify(func(o Observer) { o.Final(out, rn.steps) })
	if rn.exhausted {
		slog.Debug("iteration cap reached", "cap", r.maxIterations, "expr", term.String(out))
	}
	return out, Outcome{Iterations: rn.steps, Converged: !rn.exhausted}
}

// run holds the per-call state: a single iteration budget shared across
// every node and every re-entry, so that mutually recursive rules (the
// a+b -> b+a -> a+b kind) terminate instead of recursing without bound.
type run struct {
	rw        *Rewriter
	steps     int
	exhausted bool
}

// simplify drives one node to a fixed point: try rules, fold constants,
// simplify children, repeat until a full pass changes nothing.
func (rn *run) simplify(expr term.Expr) term.Expr {
	for {
		if rn.steps >= rn.rw.maxIterations {
			rn.exhausted = true
			return expr
		}
		rn.steps++

		if next, applied := rn.tryRules(expr); applied {
			expr = next
			continue
		}

		if rn.rw.folding {
			if folded, op, ok := foldConstants(expr); ok {
				rn.rw.notify(func(o Observer) { o.Fold(expr, folded, op) })
				expr = folded
				continue
			}
		}

		if l, ok := expr.(term.List); ok {
			rebuilt := rn.simplifyParts(l)
			if !term.Equal(rebuilt, l) {
				expr = rebuilt
				continue
			}
		}

		return expr
	}
}

// tryRules scans the rule set in order. On the first match it
// instantiates the skeleton, notifies the observer, and re-normalizes
// the instantiated result so a single application can expose further
// matches immediately.
func (rn *run) tryRules(expr term.Expr) (term.Expr, bool) {
	for _, rule := range rn.rw.rules {
		env, ok := Match(rule.Pattern, expr, rn.baseEnv())
		if !ok {
			continue
		}

		inst := Instantiate(rule.Skeleton, env)
		rn.rw.notify(func(o Observer) { o.Rewrite(expr, inst, rule, env.Clone()) })
		return rn.simplify(inst), true
	}
	return expr, false
}

// simplifyParts re-normalizes each element of a compound, head included.
func (rn *run) simplifyParts(l term.List) term.List {
	out := make(term.List, len(l))
	for i, elem := range l {
		out[i] = rn.simplify(elem)
	}
	return out
}

// baseEnv returns the environment a match attempt starts from: empty,
// or the configured prelude. Each attempt is independent.
func (rn *run) baseEnv() Bindings {
	if rn.rw.prelude != nil {
		return rn.rw.prelude
	}
	return NewBindings()
}
