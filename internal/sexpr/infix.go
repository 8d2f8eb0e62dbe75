package sexpr

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rho-lang/rho/internal/term"
)

// Infix surface: conventional operator notation as an alternative to
// the S-expression form. "x + 2*y" parses to the same tree as
// "(+ x (* 2 y))".
//
// Precedence: ^ binds tightest and associates right, then * and /,
// then + and -, all left-associative. A name followed by a
// parenthesized, comma-separated argument list is a function call:
// dd(x^3, x) parses to (dd (^ x 3) x).

var infixPrecedence = map[string]int{
	"+": 1, "-": 1,
	"*": 2, "/": 2,
	"^": 3,
}

// ParseInfix reads exactly one infix expression from s.
// Trailing tokens after the expression are an error.
func ParseInfix(s string) (term.Expr, error) {
	tokens := tokenizeInfix(s)
	if len(tokens) == 0 {
		return nil, &ParseError{Message: "empty expression"}
	}
	p := &infixParser{tokens: tokens}
	expr, err := p.parseExpr(0)
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

type infixParser struct {
	tokens []string
	pos    int
}

// parseExpr is a precedence climber: it consumes operators at or above
// minPrec, raising the floor for the right operand of left-associative
// operators so equal precedence folds to the left.
func (p *infixParser) parseExpr(minPrec int) (term.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.pos < len(p.tokens) {
		op := p.tokens[p.pos]
		prec, isOp := infixPrecedence[op]
		if !isOp || prec < minPrec {
			break
		}
		p.pos++

		next := prec + 1
		if op == "^" {
			next = prec // right-associative
		}
		right, err := p.parseExpr(next)
		if err != nil {
			return nil, err
		}
		left = term.NewList(term.Sym(op), left, right)
	}
	return left, nil
}

// parsePrimary parses an atom, a function call, or a parenthesized
// sub-expression.
func (p *infixParser) parsePrimary() (term.Expr, error) {
	if p.pos >= len(p.tokens) {
		return nil, &ParseError{Message: "unexpected end of expression", Offset: p.pos}
	}

	tok := p.tokens[p.pos]
	switch tok {
	case "(":
		p.pos++
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return expr, nil
	case ")", ",", "+", "-", "*", "/", "^":
		return nil, &ParseError{Message: fmt.Sprintf("unexpected %q", tok), Offset: p.pos}
	default:
		if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1] == "(" {
			return p.parseCall(tok)
		}
		p.pos++
		return parseAtom(tok), nil
	}
}

// parseCall parses name(arg, arg, ...) into (name arg arg ...).
func (p *infixParser) parseCall(name string) (term.Expr, error) {
	p.pos += 2 // name and opening parenthesis
	call := term.List{term.Sym(name)}
	for p.pos < len(p.tokens) && p.tokens[p.pos] != ")" {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		call = append(call, arg)
		if p.pos < len(p.tokens) && p.tokens[p.pos] == "," {
			p.pos++
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *infixParser) expect(tok string) error {
	if p.pos >= len(p.tokens) || p.tokens[p.pos] != tok {
		return &ParseError{Message: fmt.Sprintf("missing %q", tok), Offset: p.pos}
	}
	p.pos++
	return nil
}

// tokenizeInfix splits on operators, parentheses, and commas; anything
// between delimiters is a single name or number token.
func tokenizeInfix(s string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush()
		case strings.ContainsRune("()+-*/^,", r):
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}
