package rules

import (
	"github.com/rho-lang/rho/internal/sexpr"
)

// Builtin catalogs. Patterns use the matcher's marker forms:
// (?c n) binds a constant, (?v x) binds a symbol, (? e) binds any
// expression; (: e) in a skeleton splices the evaluation of e.

// Catalogs returns the builtin rule sets by name.
func Catalogs() map[string]RuleSet {
	return map[string]RuleSet{
		"algebra":     Algebra(),
		"derivatives": Derivatives(),
	}
}

// Algebra returns identity and annihilator simplification rules.
// Specific rules precede general ones; the engine applies the first
// match, so order here is load-bearing.
func Algebra() RuleSet {
	return RuleSet{
		rule("add-zero-right", "(+ (? x) 0)", "(: x)"),
		rule("add-zero-left", "(+ 0 (? x))", "(: x)"),
		rule("mult-one-right", "(* (? x) 1)", "(: x)"),
		rule("mult-one-left", "(* 1 (? x))", "(: x)"),
		rule("mult-zero-right", "(* (? x) 0)", "0"),
		rule("mult-zero-left", "(* 0 (? x))", "0"),
		rule("div-by-one", "(/ (? x) 1)", "(: x)"),
		rule("zero-div-by-any", "(/ 0 (? x))", "0"),
		rule("sub-self", "(- (? x) (? x))", "0"),
		rule("double", "(+ (? x) (? x))", "(* 2 (: x))"),
		rule("pow-zero", "(^ (? x) 0)", "1"),
		rule("pow-one", "(^ (? x) 1)", "(: x)"),
	}
}

// Derivatives returns symbolic differentiation rules for (dd expr var)
// forms. The same-variable rule must precede the other-variable rule:
// (dd (?v x) (?v x)) forces both occurrences to bind the same symbol,
// while (dd (?v u) (?v v)) matches any pair.
func Derivatives() RuleSet {
	return RuleSet{
		rule("dd-same-var", "(dd (?v x) (?v x))", "1"),
		rule("dd-const", "(dd (?c c) (?v v))", "0"),
		rule("dd-other-var", "(dd (?v u) (?v v))", "0"),
		rule("dd-sum",
			"(dd (+ (? f) (? g)) (?v v))",
			"(+ (dd (: f) (: v)) (dd (: g) (: v)))"),
		rule("dd-diff",
			"(dd (- (? f) (? g)) (?v v))",
			"(- (dd (: f) (: v)) (dd (: g) (: v)))"),
		rule("dd-const-mult",
			"(dd (* (?c c) (? f)) (?v v))",
			"(* (: c) (dd (: f) (: v)))"),
		rule("dd-product",
			"(dd (* (? f) (? g)) (?v v))",
			"(+ (* (dd (: f) (: v)) (: g)) (* (: f) (dd (: g) (: v))))"),
		rule("dd-quotient",
			"(dd (/ (? f) (? g)) (?v v))",
			"(/ (- (* (dd (: f) (: v)) (: g)) (* (: f) (dd (: g) (: v)))) (^ (: g) 2))"),
		rule("dd-power",
			"(dd (^ (? f) (?c n)) (?v v))",
			"(* (* (: n) (^ (: f) (- (: n) 1))) (dd (: f) (: v)))"),
		rule("dd-exp",
			"(dd (exp (? f)) (?v v))",
			"(* (exp (: f)) (dd (: f) (: v)))"),
		rule("dd-log",
			"(dd (log (? f)) (?v v))",
			"(/ (dd (: f) (: v)) (: f))"),
		rule("dd-sin",
			"(dd (sin (? f)) (?v v))",
			"(* (cos (: f)) (dd (: f) (: v)))"),
		rule("dd-cos",
			"(dd (cos (? f)) (?v v))",
			"(- 0 (* (sin (: f)) (dd (: f) (: v))))"),
	}
}

func rule(name, pattern, skeleton string) Rule {
	return Rule{
		Name:     name,
		Pattern:  sexpr.MustParse(pattern),
		Skeleton: sexpr.MustParse(skeleton),
	}
}
