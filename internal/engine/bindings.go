package engine

import (
	"github.com/rho-lang/rho/internal/term"
)

// Binding is a sealed interface over the two capabilities a name can be
// bound to: a data value or an invocable operation. Only Value and
// Operation implement it. Tagging the capability in the type replaces
// runtime "is this callable" checks.
type Binding interface {
	binding() // Sealed - only Value and Operation implement it
}

// Value is a data binding: the expression a pattern variable captured.
type Value struct {
	Expr term.Expr
}

func (Value) binding() {}

// Operation is an invocable binding. The partial evaluator applies it to
// already-evaluated operand values. An error return means the operation
// does not apply; the evaluator keeps the residual expression instead.
type Operation func(args []term.Expr) (term.Expr, error)

func (Operation) binding() {}

// Bindings maps names to bound capabilities. A nil map is a valid empty
// environment. Environments are never mutated in place: extension copies,
// so callers never observe partial or backtracked state.
type Bindings map[string]Binding

// NewBindings returns an empty environment.
func NewBindings() Bindings {
	return Bindings{}
}

// Lookup returns the binding for name, if any.
func (b Bindings) Lookup(name string) (Binding, bool) {
	v, ok := b[name]
	return v, ok
}

// Bind returns a copy of b with name bound to the data value e.
func (b Bindings) Bind(name string, e term.Expr) Bindings {
	out := b.Clone()
	out[name] = Value{Expr: e}
	return out
}

// BindOp returns a copy of b with name bound to the operation op.
func (b Bindings) BindOp(name string, op Operation) Bindings {
	out := b.Clone()
	out[name] = op
	return out
}

// Clone returns a shallow copy. Bound expressions are immutable, so
// sharing them is safe.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Values returns only the data bindings, for trace reporting.
func (b Bindings) Values() map[string]term.Expr {
	out := make(map[string]term.Expr)
	for k, v := range b {
		if val, ok := v.(Value); ok {
			out[k] = val.Expr
		}
	}
	return out
}

// extend adds name -> e with the consistency check that makes repeated
// pattern variables enforce equality of every occurrence. Binding a name
// already bound to a different value, or to an operation, fails the match.
func (b Bindings) extend(name string, e term.Expr) (Bindings, bool) {
	if existing, ok := b[name]; ok {
		val, isValue := existing.(Value)
		if !isValue {
			return nil, false
		}
		if !term.Equal(val.Expr, e) {
			return nil, false
		}
		return b, true
	}
	return b.Bind(name, e), true
}
