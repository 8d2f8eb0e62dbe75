package sexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rho-lang/rho/internal/term"
)

func TestParseInfix(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string // equivalent S-expression
	}{
		{"int", "42", "42"},
		{"float", "2.5", "2.5"},
		{"symbol", "x", "x"},
		{"addition", "1 + 2", "(+ 1 2)"},
		{"precedence", "x + 2*y", "(+ x (* 2 y))"},
		{"precedence reversed", "2*y + x", "(+ (* 2 y) x)"},
		{"left assoc subtraction", "a - b - c", "(- (- a b) c)"},
		{"left assoc division", "a / b / c", "(/ (/ a b) c)"},
		{"right assoc power", "2^3^2", "(^ 2 (^ 3 2))"},
		{"power over times", "2*x^3", "(* 2 (^ x 3))"},
		{"parens override", "2*(1+2)", "(* 2 (+ 1 2))"},
		{"nested parens", "((x))", "x"},
		{"call no args", "f()", "(f)"},
		{"call one arg", "sin(x)", "(sin x)"},
		{"call powered", "sin(x)^2", "(^ (sin x) 2)"},
		{"call two args", "dd(x^3, x)", "(dd (^ x 3) x)"},
		{"call nested", "f(g(x), y + 1)", "(f (g x) (+ y 1))"},
		{"no spaces", "x+2*y", "(+ x (* 2 y))"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseInfix(tc.src)
			require.NoError(t, err)
			want := MustParse(tc.want)
			assert.True(t, term.Equal(got, want), "got %s, want %s", term.String(got), tc.want)
		})
	}
}

func TestParseInfix_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"dangling operator", "x +"},
		{"leading operator", "* x"},
		{"unary minus", "-x"},
		{"unexpected close", ")"},
		{"unclosed paren", "(x + 1"},
		{"unclosed call", "f(x"},
		{"trailing tokens", "x + 1 y"},
		{"bare comma", "x, y"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseInfix(tc.src)
			require.Error(t, err)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}
