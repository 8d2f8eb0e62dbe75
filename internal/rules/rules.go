// Package rules defines rewrite rules and loads them from S-expression,
// JSON, and YAML sources. A rule is an ordered (pattern, skeleton) pair;
// a rule set is an ordered sequence of rules, and that order is
// semantically significant: the engine applies the first matching rule.
package rules

import (
	"fmt"

	"github.com/rho-lang/rho/internal/term"
)

// Rule pairs a pattern with the skeleton that replaces whatever the
// pattern matched. Name is optional metadata for diagnostics and traces.
type Rule struct {
	Name     string
	Pattern  term.Expr
	Skeleton term.Expr
}

// RuleSet is an ordered sequence of rules. First match wins, so callers
// should put specific rules before general ones.
type RuleSet []Rule

// FromPair builds a rule from a two-element (pattern skeleton) form.
// Any other shape is a structural error: a rule is a pair, and silently
// accepting something else would match the wrong thing later.
func FromPair(e term.Expr) (Rule, error) {
	l, ok := e.(term.List)
	if !ok {
		return Rule{}, fmt.Errorf("rule must be a (pattern skeleton) pair, got atom %s", term.String(e))
	}
	if len(l) != 2 {
		return Rule{}, fmt.Errorf("rule must be a (pattern skeleton) pair, got %d elements", len(l))
	}
	return Rule{Pattern: l[0], Skeleton: l[1]}, nil
}

// Names returns the rule names in order, substituting the compact
// pattern text for unnamed rules.
func (rs RuleSet) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		if r.Name != "" {
			names[i] = r.Name
		} else {
			names[i] = term.String(r.Pattern)
		}
	}
	return names
}
