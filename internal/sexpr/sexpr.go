// Package sexpr parses and formats the S-expression surface syntax.
// The engine itself is agnostic to surface syntax; this package is the
// boundary that turns text into term.Expr trees and back.
package sexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rho-lang/rho/internal/term"
)

// ParseError describes a syntax error with the offending token position.
type ParseError struct {
	Message string
	Offset  int // token index, not byte offset
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sexpr: %s (token %d)", e.Message, e.Offset)
}

// Parse reads exactly one expression from s.
// Trailing tokens after the expression are an error.
func Parse(s string) (term.Expr, error) {
	tokens := tokenize(s)
	if len(tokens) == 0 {
		return nil, &ParseError{Message: "empty expression"}
	}
	p := &parser{tokens: tokens}
	expr, err := p.next()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, &ParseError{
			Message: fmt.Sprintf("extra input after expression: %q", p.tokens[p.pos]),
			Offset:  p.pos,
		}
	}
	return expr, nil
}

// ParseAll reads every top-level expression from s.
// Used by the rule loader, where a file holds one form per rule.
func ParseAll(s string) ([]term.Expr, error) {
	tokens := tokenize(s)
	p := &parser{tokens: tokens}
	var out []term.Expr
	for p.pos < len(p.tokens) {
		expr, err := p.next()
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

// MustParse parses s and panics on error. For tests and builtin catalogs.
func MustParse(s string) term.Expr {
	expr, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return expr
}

// StripComments removes ";" and "//" line comments.
func StripComments(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = line[:idx]
		}
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) next() (term.Expr, error) {
	if p.pos >= len(p.tokens) {
		return nil, &ParseError{Message: "unexpected end of expression", Offset: p.pos}
	}

	tok := p.tokens[p.pos]
	switch tok {
	case "(":
		p.pos++
		list := term.List{}
		for {
			if p.pos >= len(p.tokens) {
				return nil, &ParseError{Message: "missing closing parenthesis", Offset: p.pos}
			}
			if p.tokens[p.pos] == ")" {
				p.pos++
				return list, nil
			}
			elem, err := p.next()
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
	case ")":
		return nil, &ParseError{Message: "unexpected closing parenthesis", Offset: p.pos}
	default:
		p.pos++
		return parseAtom(tok), nil
	}
}

// parseAtom tries integer, then float, then falls back to a symbol.
func parseAtom(tok string) term.Expr {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return term.Int(n)
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return term.Float(f)
	}
	return term.Sym(tok)
}

func tokenize(s string) []string {
	s = strings.ReplaceAll(s, "(", " ( ")
	s = strings.ReplaceAll(s, ")", " ) ")
	return strings.Fields(s)
}
