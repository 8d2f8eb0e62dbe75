package trace

import (
	"encoding/json"

	"github.com/rho-lang/rho/internal/sexpr"
	"github.com/rho-lang/rho/internal/term"
)

// Snapshot forms: expressions render as compact S-expression strings and
// map keys serialize sorted, so two identical sessions produce identical
// bytes. Golden tests compare these bytes directly.

type sessionJSON struct {
	ID       string     `json:"id"`
	RuleHash string     `json:"rule_hash,omitempty"`
	Steps    []stepJSON `json:"steps"`
}

type stepJSON struct {
	Seq        int               `json:"seq"`
	Kind       string            `json:"kind"`
	Expr       string            `json:"expr,omitempty"`
	Before     string            `json:"before,omitempty"`
	After      string            `json:"after,omitempty"`
	Pattern    string            `json:"pattern,omitempty"`
	Skeleton   string            `json:"skeleton,omitempty"`
	RuleName   string            `json:"rule_name,omitempty"`
	Bindings   map[string]string `json:"bindings,omitempty"`
	Iterations int               `json:"iterations,omitempty"`
}

// Snapshot serializes the session to deterministic, indented JSON.
func (s *Session) Snapshot() ([]byte, error) {
	doc := sessionJSON{
		ID:       s.ID,
		RuleHash: s.RuleHash,
		Steps:    make([]stepJSON, len(s.Steps)),
	}
	for i, st := range s.Steps {
		doc.Steps[i] = stepToJSON(st)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func stepToJSON(st Step) stepJSON {
	out := stepJSON{
		Seq:        st.Seq,
		Kind:       st.Kind,
		Expr:       formatMaybe(st.Expr),
		Before:     formatMaybe(st.Before),
		After:      formatMaybe(st.After),
		Pattern:    formatMaybe(st.Pattern),
		Skeleton:   formatMaybe(st.Skeleton),
		RuleName:   st.RuleName,
		Iterations: st.Iterations,
	}
	if st.PatternTag != "" {
		out.Pattern = st.PatternTag
	}
	if len(st.Bindings) > 0 {
		out.Bindings = make(map[string]string, len(st.Bindings))
		for k, v := range st.Bindings {
			out.Bindings[k] = sexpr.Format(v)
		}
	}
	return out
}

func formatMaybe(e term.Expr) string {
	if e == nil {
		return ""
	}
	return sexpr.Format(e)
}
