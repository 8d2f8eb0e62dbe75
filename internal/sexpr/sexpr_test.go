package sexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rho-lang/rho/internal/term"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want term.Expr
	}{
		{"int", "42", term.Int(42)},
		{"negative int", "-3", term.Int(-3)},
		{"float", "2.5", term.Float(2.5)},
		{"symbol", "x", term.Sym("x")},
		{"operator", "+", term.Sym("+")},
		{"empty list", "()", term.List{}},
		{"flat", "(+ 1 2)", term.NewList(term.Sym("+"), term.Int(1), term.Int(2))},
		{"nested", "(* (+ x 1) y)",
			term.NewList(term.Sym("*"),
				term.NewList(term.Sym("+"), term.Sym("x"), term.Int(1)),
				term.Sym("y"))},
		{"marker form", "(?c n)", term.NewList(term.Sym("?c"), term.Sym("n"))},
		{"whitespace", "  ( +   1\n 2 )  ", term.NewList(term.Sym("+"), term.Int(1), term.Int(2))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.src)
			require.NoError(t, err)
			assert.True(t, term.Equal(got, tc.want), "got %s", term.String(got))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"unclosed", "(+ 1 2"},
		{"unexpected close", ")"},
		{"trailing tokens", "(+ 1 2) extra"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			require.Error(t, err)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseAll(t *testing.T) {
	exprs, err := ParseAll("(a 1) (b 2)\n(c 3)")
	require.NoError(t, err)
	require.Len(t, exprs, 3)
	assert.True(t, term.Equal(exprs[2], term.NewList(term.Sym("c"), term.Int(3))))
}

func TestStripComments(t *testing.T) {
	src := `
; leading comment
(a 1) ; trailing
// slash comment
(b 2)
`
	exprs, err := ParseAll(StripComments(src))
	require.NoError(t, err)
	require.Len(t, exprs, 2)
}

func TestFormat_RoundTrip(t *testing.T) {
	sources := []string{
		"42",
		"x",
		"()",
		"(+ x 1)",
		"(* (+ x 1) (- y 2.5))",
		"(dd (^ x 3) x)",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			expr := MustParse(src)
			assert.Equal(t, src, Format(expr))

			back, err := Parse(Format(expr))
			require.NoError(t, err)
			assert.True(t, term.Equal(expr, back))
		})
	}
}

func TestFormatIndent(t *testing.T) {
	short := MustParse("(+ x 1)")
	assert.Equal(t, "(+ x 1)", FormatIndent(short), "short lists stay on one line")

	long := MustParse("(+ (* very-long-symbol-name another-long-one) (- third-long-symbol fourth-long-symbol))")
	out := FormatIndent(long)
	assert.Contains(t, out, "\n")

	back, err := Parse(out)
	require.NoError(t, err)
	assert.True(t, term.Equal(long, back), "indented form must still parse")
}

func TestMustParse_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() { MustParse("(unclosed") })
}
