package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	testCases := []struct {
		name string
		a, b Expr
		want bool
	}{
		{"same int", Int(5), Int(5), true},
		{"different int", Int(5), Int(6), false},
		{"int vs equal float", Int(2), Float(2.0), true},
		{"int vs unequal float", Int(2), Float(2.5), false},
		{"same symbol", Sym("x"), Sym("x"), true},
		{"different symbol", Sym("x"), Sym("y"), false},
		{"symbol vs number", Sym("2"), Int(2), false},
		{"empty lists", List{}, List{}, true},
		{"equal lists", NewList(Sym("+"), Int(1), Sym("x")), NewList(Sym("+"), Int(1), Sym("x")), true},
		{"different lengths", NewList(Sym("+"), Int(1)), NewList(Sym("+"), Int(1), Int(2)), false},
		{"nested", NewList(Sym("f"), NewList(Sym("g"), Int(1))), NewList(Sym("f"), NewList(Sym("g"), Int(1))), true},
		{"nested mismatch", NewList(Sym("f"), NewList(Sym("g"), Int(1))), NewList(Sym("f"), NewList(Sym("g"), Int(2))), false},
		{"list vs atom", List{}, Sym("x"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Equal(tc.a, tc.b))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsConstant(Int(1)))
	assert.True(t, IsConstant(Float(1.5)))
	assert.False(t, IsConstant(Sym("x")))
	assert.False(t, IsConstant(List{}))

	assert.True(t, IsAtom(Int(1)))
	assert.True(t, IsAtom(Sym("x")))
	assert.False(t, IsAtom(List{}))
}

func TestHeadTail(t *testing.T) {
	l := NewList(Sym("+"), Int(1), Int(2))
	assert.True(t, Equal(l.Head(), Sym("+")))
	assert.True(t, Equal(l.Tail(), NewList(Int(1), Int(2))))

	assert.Empty(t, List{}.Tail())
	assert.PanicsWithValue(t, "term: Head of empty list", func() {
		List{}.Head()
	})
}

func TestString(t *testing.T) {
	testCases := []struct {
		expr Expr
		want string
	}{
		{Int(42), "42"},
		{Int(-7), "-7"},
		{Float(2.5), "2.5"},
		{Sym("foo"), "foo"},
		{List{}, "()"},
		{NewList(Sym("+"), Sym("x"), Int(1)), "(+ x 1)"},
		{NewList(Sym("*"), NewList(Sym("+"), Sym("x"), Int(1)), Sym("y")), "(* (+ x 1) y)"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, String(tc.expr))
		})
	}
}

func TestNumeric(t *testing.T) {
	n, ok := Numeric(Int(3))
	require.True(t, ok)
	assert.Equal(t, 3.0, n)

	n, ok = Numeric(Float(1.25))
	require.True(t, ok)
	assert.Equal(t, 1.25, n)

	_, ok = Numeric(Sym("x"))
	assert.False(t, ok)
}
