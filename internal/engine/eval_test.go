package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rho-lang/rho/internal/term"
)

func TestEvaluate_ConstantsAreFixed(t *testing.T) {
	env := NewBindings().Bind("x", term.Int(99))

	for _, c := range []term.Expr{term.Int(0), term.Int(-7), term.Float(3.25)} {
		assert.True(t, term.Equal(Evaluate(c, env), c))
	}
}

func TestEvaluate_Symbols(t *testing.T) {
	env := NewBindings().Bind("x", mustParse(t, "(+ a b)"))

	assert.True(t, term.Equal(Evaluate(term.Sym("x"), env), mustParse(t, "(+ a b)")))
	assert.True(t, term.Equal(Evaluate(term.Sym("y"), env), term.Sym("y")),
		"unresolved names stay symbolic")
}

func TestEvaluate_SymbolBoundToOperationStaysSymbolic(t *testing.T) {
	env := Prelude()

	// "+" is bound, but to an operation, which is not an expression.
	assert.True(t, term.Equal(Evaluate(term.Sym("+"), env), term.Sym("+")))
}

func TestEvaluate_EmptyList(t *testing.T) {
	out := Evaluate(term.List{}, NewBindings())
	l, ok := out.(term.List)
	require.True(t, ok)
	assert.Empty(t, l)
}

func TestEvaluate_AppliesOperation(t *testing.T) {
	env := Prelude().Bind("x", term.Int(4))

	out := Evaluate(mustParse(t, "(+ x 1)"), env)
	assert.True(t, term.Equal(out, term.Int(5)))
}

func TestEvaluate_UnknownHeadYieldsResidual(t *testing.T) {
	env := NewBindings().Bind("x", term.Int(4))

	// Operands are still evaluated even though "f" resolves to nothing.
	out := Evaluate(mustParse(t, "(f x 1)"), env)
	assert.True(t, term.Equal(out, mustParse(t, "(f 4 1)")))
}

func TestEvaluate_ResidualHeadIsEvaluated(t *testing.T) {
	env := NewBindings().Bind("op", term.Sym("g"))

	// The head is evaluated like every other element for the residual,
	// but operation lookup used the original head symbol "op".
	out := Evaluate(mustParse(t, "(op 1 2)"), env)
	assert.True(t, term.Equal(out, mustParse(t, "(g 1 2)")))
}

func TestEvaluate_OperationErrorKeepsResidual(t *testing.T) {
	env := NewBindings().BindOp("half", func(args []term.Expr) (term.Expr, error) {
		if len(args) != 1 {
			return nil, errors.New("want one operand")
		}
		n, ok := args[0].(term.Int)
		if !ok || n%2 != 0 {
			return nil, errors.New("not an even integer")
		}
		return n / 2, nil
	})

	out := Evaluate(mustParse(t, "(half 8)"), env)
	assert.True(t, term.Equal(out, term.Int(4)))

	out = Evaluate(mustParse(t, "(half 7)"), env)
	assert.True(t, term.Equal(out, mustParse(t, "(half 7)")),
		"a failing operation degrades to the residual")
}

func TestEvaluate_NestedComputation(t *testing.T) {
	env := Prelude().
		Bind("a", term.Int(2)).
		Bind("b", term.Int(3))

	out := Evaluate(mustParse(t, "(* (+ a 1) b)"), env)
	assert.True(t, term.Equal(out, term.Int(9)))
}

func TestEvaluate_PartialSpecialization(t *testing.T) {
	env := Prelude().Bind("a", term.Int(2))

	// b is unresolved: the inner sum computes, the product stays.
	out := Evaluate(mustParse(t, "(* (+ a 1) b)"), env)
	assert.True(t, term.Equal(out, mustParse(t, "(* 3 b)")))
}
