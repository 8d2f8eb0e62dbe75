// Package trace records rewrite steps for inspection, golden testing,
// and persistence. The Recorder plugs into the engine as its observer;
// the Store persists recorded sessions to SQLite.
package trace

import (
	"github.com/rho-lang/rho/internal/engine"
	"github.com/rho-lang/rho/internal/rules"
	"github.com/rho-lang/rho/internal/term"
)

// Step kinds, in the order they can occur in a session.
const (
	KindInitial = "initial"
	KindRewrite = "rewrite"
	KindFold    = "fold"
	KindFinal   = "final"
)

// Step is one recorded event. Which fields are set depends on Kind:
// initial/final carry Expr (and final carries Iterations); rewrite
// carries Before/After/Pattern/Skeleton/Bindings; fold carries
// Before/After and the synthetic pattern tag for the folded operator.
type Step struct {
	Seq        int
	Kind       string
	Expr       term.Expr
	Before     term.Expr
	After      term.Expr
	Pattern    term.Expr
	Skeleton   term.Expr
	PatternTag string
	RuleName   string
	Bindings   map[string]term.Expr
	Iterations int
}

// Session is one complete recorded rewrite.
type Session struct {
	ID       string
	RuleHash string
	Steps    []Step
}

// Input returns the initial expression, if recorded.
func (s *Session) Input() term.Expr {
	for _, st := range s.Steps {
		if st.Kind == KindInitial {
			return st.Expr
		}
	}
	return nil
}

// Output returns the final expression, if recorded.
func (s *Session) Output() term.Expr {
	for _, st := range s.Steps {
		if st.Kind == KindFinal {
			return st.Expr
		}
	}
	return nil
}

// Iterations returns the iteration count from the final step.
func (s *Session) Iterations() int {
	for _, st := range s.Steps {
		if st.Kind == KindFinal {
			return st.Iterations
		}
	}
	return 0
}

// Recorder implements engine.Observer, accumulating steps in memory.
// Not safe for concurrent use; the engine is single-threaded per call.
type Recorder struct {
	session Session
	seq     int
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithGenerator sets the session ID generator. Defaults to UUIDv7;
// tests use a FixedGenerator for deterministic output.
func WithGenerator(g Generator) RecorderOption {
	return func(r *Recorder) {
		r.session.ID = g.Generate()
	}
}

// WithRuleHash tags the session with the content hash of the rule set
// that produced it, for provenance.
func WithRuleHash(hash string) RecorderOption {
	return func(r *Recorder) {
		r.session.RuleHash = hash
	}
}

// NewRecorder creates a Recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{}
	for _, opt := range opts {
		opt(r)
	}
	if r.session.ID == "" {
		r.session.ID = UUIDv7Generator{}.Generate()
	}
	return r
}

// Session returns the recorded session.
func (r *Recorder) Session() *Session {
	return &r.session
}

// Initial implements engine.Observer.
func (r *Recorder) Initial(expr term.Expr) {
	r.append(Step{Kind: KindInitial, Expr: expr})
}

// Rewrite implements engine.Observer.
func (r *Recorder) Rewrite(before, after term.Expr, rule rules.Rule, env engine.Bindings) {
	r.append(Step{
		Kind:     KindRewrite,
		Before:   before,
		After:    after,
		Pattern:  rule.Pattern,
		Skeleton: rule.Skeleton,
		RuleName: rule.Name,
		Bindings: env.Values(),
	})
}

// Fold implements engine.Observer. The pattern tag identifies the folded
// operator the way a rule pattern would identify a rule.
func (r *Recorder) Fold(before, after term.Expr, op string) {
	r.append(Step{
		Kind:       KindFold,
		Before:     before,
		After:      after,
		PatternTag: "constant-fold-" + op,
	})
}

// Final implements engine.Observer.
func (r *Recorder) Final(expr term.Expr, iterations int) {
	r.append(Step{Kind: KindFinal, Expr: expr, Iterations: iterations})
}

func (r *Recorder) append(s Step) {
	s.Seq = r.seq
	r.seq++
	r.session.Steps = append(r.session.Steps, s)
}
