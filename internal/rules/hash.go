package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/rho-lang/rho/internal/term"
)

// DomainRuleSet is the domain prefix for rule set content hashes.
// The version suffix allows future canonical-form changes without
// colliding with hashes already persisted in trace stores.
const DomainRuleSet = "rho/ruleset/v1"

// Hash returns the content hash identifying a rule set.
//
// The canonical form is one "pattern -> skeleton" line per rule in
// declaration order (order matters: first match wins, so reordered rule
// sets are genuinely different). Symbol text is NFC normalized so
// visually identical rules hash identically regardless of the Unicode
// composition their source file happened to use.
func Hash(rs RuleSet) string {
	var b strings.Builder
	for _, r := range rs {
		b.WriteString(term.String(r.Pattern))
		b.WriteString(" -> ")
		b.WriteString(term.String(r.Skeleton))
		b.WriteByte('\n')
	}
	canonical := norm.NFC.String(b.String())

	h := sha256.New()
	h.Write([]byte(DomainRuleSet))
	h.Write([]byte{0x00}) // null separator prevents domain/data boundary ambiguity
	h.Write([]byte(canonical))
	return hex.EncodeToString(h.Sum(nil))
}
