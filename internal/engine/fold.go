package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/rho-lang/rho/internal/term"
)

// Constant folding evaluates a small fixed catalogue of arithmetic
// operators over all-constant operands, so rules never have to spell out
// arithmetic. The catalogue and its arities are deliberately closed:
// + - * / ^ with one operand (unary minus) or two.

// foldConstants attempts to fold expr. The second result is the operator
// name for trace reporting; ok is false when the fold does not apply
// (non-compound, operands not all constant, unknown operator, wrong
// arity, or division by zero).
func foldConstants(expr term.Expr) (term.Expr, string, bool) {
	l, ok := expr.(term.List)
	if !ok || len(l) == 0 {
		return nil, "", false
	}
	op, ok := l[0].(term.Sym)
	if !ok {
		return nil, "", false
	}

	args := l[1:]
	for _, a := range args {
		if !term.IsConstant(a) {
			return nil, "", false
		}
	}

	result, err := applyArith(string(op), args)
	if err != nil {
		return nil, "", false
	}
	return result, string(op), true
}

var errNotApplicable = errors.New("not applicable")

// applyArith performs one arithmetic operation on constant operands.
// Integer operands stay integral except for inexact division and
// negative exponents, which fall to floating point.
func applyArith(op string, args []term.Expr) (term.Expr, error) {
	switch op {
	case "+":
		if len(args) != 2 {
			return nil, errNotApplicable
		}
		return binaryFold(args, addExact,
			func(a, b float64) float64 { return a + b }), nil
	case "-":
		switch len(args) {
		case 1:
			if n, ok := args[0].(term.Int); ok && int64(n) != math.MinInt64 {
				return term.Int(-n), nil
			}
			f, _ := term.Numeric(args[0])
			return term.Float(-f), nil
		case 2:
			return binaryFold(args, subExact,
				func(a, b float64) float64 { return a - b }), nil
		}
		return nil, errNotApplicable
	case "*":
		if len(args) != 2 {
			return nil, errNotApplicable
		}
		return binaryFold(args, mulExact,
			func(a, b float64) float64 { return a * b }), nil
	case "/":
		if len(args) != 2 {
			return nil, errNotApplicable
		}
		if bn, _ := term.Numeric(args[1]); bn == 0 {
			// Division by zero means the fold is not applicable;
			// the expression is left for the rules.
			return nil, errNotApplicable
		}
		return binaryFold(args,
			func(a, b int64) (int64, bool) { return a / b, a%b == 0 },
			func(a, b float64) float64 { return a / b }), nil
	case "^":
		if len(args) != 2 {
			return nil, errNotApplicable
		}
		return binaryFold(args, intPow,
			func(a, b float64) float64 { return math.Pow(a, b) }), nil
	default:
		return nil, fmt.Errorf("unknown operator %q", op)
	}
}

// addExact adds two int64 values; not exact on overflow.
func addExact(a, b int64) (int64, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

// subExact subtracts two int64 values; not exact on overflow.
func subExact(a, b int64) (int64, bool) {
	c := a - b
	return c, (c < a) == (b > 0)
}

// mulExact multiplies two int64 values; not exact on overflow. The -1
// cases are split off because MinInt64 / -1 overflows the division in
// the general check.
func mulExact(a, b int64) (int64, bool) {
	switch {
	case a == 0 || b == 0:
		return 0, true
	case a == -1:
		return -b, b != math.MinInt64
	case b == -1:
		return -a, a != math.MinInt64
	}
	c := a * b
	return c, c/b == a
}

// binaryFold applies the integer operation when both operands are Int
// and it reports an exact result; otherwise the float operation.
// Inexact covers overflow as well as fractional division: a fold must
// never replace an expression with a wrapped constant.
func binaryFold(args []term.Expr, intOp func(a, b int64) (int64, bool), floatOp func(a, b float64) float64) term.Expr {
	ai, aIsInt := args[0].(term.Int)
	bi, bIsInt := args[1].(term.Int)
	if aIsInt && bIsInt {
		if n, exact := intOp(int64(ai), int64(bi)); exact {
			return term.Int(n)
		}
	}
	af, _ := term.Numeric(args[0])
	bf, _ := term.Numeric(args[1])
	return term.Float(floatOp(af, bf))
}

// intPow computes a^b for non-negative b; negative exponents and
// overflowing results are not exact in the integers.
func intPow(a, b int64) (int64, bool) {
	if b < 0 {
		return 0, false
	}
	result := int64(1)
	for i := int64(0); i < b; i++ {
		var ok bool
		if result, ok = mulExact(result, a); !ok {
			return 0, false
		}
	}
	return result, true
}

// Prelude returns an environment binding the arithmetic operators as
// invocable operations, for instantiation-time computation in (: ...)
// skeleton forms and for direct use of Evaluate. Match environments
// start empty unless the rewriter is configured with WithPrelude.
func Prelude() Bindings {
	env := NewBindings()
	for _, op := range []string{"+", "-", "*", "/", "^"} {
		name := op
		env[name] = Operation(func(args []term.Expr) (term.Expr, error) {
			for _, a := range args {
				if !term.IsConstant(a) {
					return nil, fmt.Errorf("%s: non-constant operand %s", name, term.String(a))
				}
			}
			return applyArith(name, args)
		})
	}
	return env
}
