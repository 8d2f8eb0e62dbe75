package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rho-lang/rho/internal/sexpr"
	"github.com/rho-lang/rho/internal/term"
)

// LoadError describes a failure to load a rule source.
type LoadError struct {
	Path    string
	Code    string
	Message string
}

// Load error codes.
const (
	ErrCodeNotFound  = "NOT_FOUND"
	ErrCodeBadFormat = "BAD_FORMAT"
	ErrCodeBadRule   = "BAD_RULE"
)

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadFile reads a rule file, dispatching on extension:
//
//	.lisp, .sexp  - one (pattern skeleton) form per rule, ; and // comments
//	.json         - array of [pattern, skeleton] pairs in interchange form
//	.yaml, .yml   - rules: [{name, pattern, skeleton}] with S-expression strings
//
// YAML documents are validated against the embedded CUE schema before
// the pattern and skeleton strings are parsed.
func LoadFile(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Path: path, Code: ErrCodeNotFound, Message: "rule file not found"}
		}
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".lisp", ".sexp":
		rs, err := ParseSexpr(string(data))
		return rs, wrapPath(path, err)
	case ".json":
		rs, err := ParseJSON(data)
		return rs, wrapPath(path, err)
	case ".yaml", ".yml":
		rs, err := ParseYAML(data)
		return rs, wrapPath(path, err)
	default:
		return nil, &LoadError{
			Path:    path,
			Code:    ErrCodeBadFormat,
			Message: fmt.Sprintf("unsupported rule file extension %q", filepath.Ext(path)),
		}
	}
}

func wrapPath(path string, err error) error {
	if err == nil {
		return nil
	}
	if le, ok := err.(*LoadError); ok && le.Path == "" {
		le.Path = path
		return le
	}
	return fmt.Errorf("%s: %w", path, err)
}

// ParseSexpr parses S-expression rule text: one (pattern skeleton) form
// per rule, with ; and // line comments.
func ParseSexpr(content string) (RuleSet, error) {
	forms, err := sexpr.ParseAll(sexpr.StripComments(content))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadFormat, Message: err.Error()}
	}

	rs := make(RuleSet, 0, len(forms))
	for i, form := range forms {
		rule, err := FromPair(form)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadRule, Message: fmt.Sprintf("rule %d: %v", i+1, err)}
		}
		rs = append(rs, rule)
	}
	return rs, nil
}

// ParseJSON parses the JSON interchange form: an array of
// [pattern, skeleton] pairs built from nested arrays, strings, and numbers.
func ParseJSON(data []byte) (RuleSet, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeBadFormat, Message: fmt.Sprintf("rule document must be a JSON array: %v", err)}
	}

	rs := make(RuleSet, 0, len(raw))
	for i, entry := range raw {
		form, err := term.UnmarshalExpr(entry)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadRule, Message: fmt.Sprintf("rule %d: %v", i+1, err)}
		}
		rule, err := FromPair(form)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadRule, Message: fmt.Sprintf("rule %d: %v", i+1, err)}
		}
		rs = append(rs, rule)
	}
	return rs, nil
}

// ruleDoc is the YAML rule document shape.
// The json tags double as the CUE encoding for schema validation.
type ruleDoc struct {
	Rules []ruleEntry `yaml:"rules" json:"rules"`
}

type ruleEntry struct {
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Pattern  string `yaml:"pattern" json:"pattern"`
	Skeleton string `yaml:"skeleton" json:"skeleton"`
}

// ParseYAML parses a YAML rule document, validating it against the CUE
// schema before parsing the embedded S-expression strings.
func ParseYAML(data []byte) (RuleSet, error) {
	var doc ruleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeBadFormat, Message: fmt.Sprintf("bad YAML: %v", err)}
	}

	if err := ValidateDoc(doc); err != nil {
		return nil, &LoadError{Code: ErrCodeBadRule, Message: err.Error()}
	}

	rs := make(RuleSet, 0, len(doc.Rules))
	for i, entry := range doc.Rules {
		pat, err := sexpr.Parse(entry.Pattern)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadRule, Message: fmt.Sprintf("rule %d pattern: %v", i+1, err)}
		}
		skel, err := sexpr.Parse(entry.Skeleton)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadRule, Message: fmt.Sprintf("rule %d skeleton: %v", i+1, err)}
		}
		rs = append(rs, Rule{Name: entry.Name, Pattern: pat, Skeleton: skel})
	}
	return rs, nil
}
