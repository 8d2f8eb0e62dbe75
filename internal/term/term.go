// Package term defines the expression trees the rewriting engine operates
// on. Patterns and skeletons reuse the same representation; marker forms
// are interpreted by the engine, not by this package.
package term

import (
	"strconv"
	"strings"
)

// Expr is a sealed interface over the four expression shapes.
// Only Int, Float, Sym, and List implement it.
//
// Expressions are immutable value trees: the engine never mutates an
// input tree, it only builds new output trees.
type Expr interface {
	expr() // Sealed - only these types implement it
}

// Int is an integer constant.
type Int int64

func (Int) expr() {}

// Float is a floating-point constant.
type Float float64

func (Float) expr() {}

// Sym is an identifier: a variable name or an operator name.
type Sym string

func (Sym) expr() {}

// List is an ordered sequence of expressions. By convention the first
// element names an operation and the rest are operands, but nothing at
// the type level enforces arity or even non-emptiness.
type List []Expr

func (List) expr() {}

// NewList builds a List from its elements.
func NewList(elems ...Expr) List {
	return List(elems)
}

// Head returns the first element of a non-empty list.
// Panics with a descriptive message on an empty list: extracting the
// head of an empty sequence is a rule-authoring error, not a match
// failure.
func (l List) Head() Expr {
	if len(l) == 0 {
		panic("term: Head of empty list")
	}
	return l[0]
}

// Tail returns all elements after the first. The tail of an empty list
// is an empty list.
func (l List) Tail() List {
	if len(l) == 0 {
		return List{}
	}
	return l[1:]
}

// IsConstant reports whether e is a numeric constant (Int or Float).
func IsConstant(e Expr) bool {
	switch e.(type) {
	case Int, Float:
		return true
	}
	return false
}

// IsAtom reports whether e is a leaf: a constant or a symbol.
func IsAtom(e Expr) bool {
	switch e.(type) {
	case Int, Float, Sym:
		return true
	}
	return false
}

// Numeric returns the value of a constant as a float64.
// The second result is false if e is not a constant.
func Numeric(e Expr) (float64, bool) {
	switch v := e.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	}
	return 0, false
}

// Equal reports structural equality of two expressions.
//
// Constants compare numerically, so Int(2) equals Float(2): the binding
// consistency check and the driver's convergence check both rely on this,
// matching the untyped numerics of the rule interchange format.
func Equal(a, b Expr) bool {
	switch av := a.(type) {
	case Int, Float:
		an, _ := Numeric(a)
		bn, ok := Numeric(b)
		return ok && an == bn
	case Sym:
		bv, ok := b.(Sym)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders e in compact S-expression form.
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

func (s Sym) String() string { return string(s) }

func (l List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, e := range l {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(String(e))
	}
	b.WriteByte(')')
	return b.String()
}

// String renders any expression in compact S-expression form.
func String(e Expr) string {
	switch v := e.(type) {
	case Int:
		return v.String()
	case Float:
		return v.String()
	case Sym:
		return v.String()
	case List:
		return v.String()
	}
	return "<nil>"
}
