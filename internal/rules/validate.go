package rules

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// ruleSchema constrains YAML rule documents before the embedded
// S-expression strings are parsed. Patterns and skeletons must be
// non-empty strings; anything else is rejected with a path-qualified
// CUE error instead of a confusing parse failure downstream.
const ruleSchema = `
#Rule: {
	name?:    string & !=""
	pattern:  string & !=""
	skeleton: string & !=""
}

#Document: {
	rules: [...#Rule]
}
`

// ValidateDoc checks a decoded rule document against the CUE schema.
func ValidateDoc(doc ruleDoc) error {
	if doc.Rules == nil {
		// A document without a rules key encodes as null, not [].
		doc.Rules = []ruleEntry{}
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(ruleSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal: rule schema does not compile: %w", err)
	}

	docVal := ctx.Encode(doc)
	if err := docVal.Err(); err != nil {
		return fmt.Errorf("encode rule document: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Document")).Unify(docVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("rule document invalid:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}
