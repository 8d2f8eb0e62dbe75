package engine

import (
	"github.com/rho-lang/rho/internal/term"
)

// Marker symbols recognized in patterns and skeletons. A marker form is
// a two-element list whose head is one of these symbols and whose second
// element names the binding; any other list is a structural pattern.
const (
	MarkerConstant = "?c" // matches only a numeric constant
	MarkerVariable = "?v" // matches only a symbol
	MarkerAny      = "?"  // matches any expression
	MarkerSplice   = ":"  // skeleton only: evaluate and splice
)

// Match structurally compares pattern against expr, extending env with
// the bindings the pattern's marker forms capture.
//
// Failure is an ordinary outcome: the second result is false and no
// error is involved. On failure the returned environment is nil and must
// not be used. Match never modifies env; extension copies.
//
// Case order (first applicable wins):
//  1. empty list pattern: expr must be an empty list
//  2. atom pattern: expr must be an equal atom, no binding created
//  3. (?c name): expr must be a constant, bound with consistency check
//  4. (?v name): expr must be a symbol, bound likewise
//  5. (? name): any expr, bound likewise
//  6. structural list: element-wise match of equal-length lists
//
// Invocable operations live only in the environment, never in expression
// trees, so the "any" marker and the structural case never see one.
func Match(pattern, expr term.Expr, env Bindings) (Bindings, bool) {
	if pat, ok := pattern.(term.List); ok {
		if len(pat) == 0 {
			e, ok := expr.(term.List)
			if !ok || len(e) != 0 {
				return nil, false
			}
			return env, true
		}

		if name, ok := markerName(pat, MarkerConstant); ok {
			if !term.IsConstant(expr) {
				return nil, false
			}
			return env.extend(name, expr)
		}
		if name, ok := markerName(pat, MarkerVariable); ok {
			if _, isSym := expr.(term.Sym); !isSym {
				return nil, false
			}
			return env.extend(name, expr)
		}
		if name, ok := markerName(pat, MarkerAny); ok {
			return env.extend(name, expr)
		}

		e, ok := expr.(term.List)
		if !ok || len(pat) != len(e) {
			return nil, false
		}
		for i := range pat {
			env, ok = Match(pat[i], e[i], env)
			if !ok {
				return nil, false
			}
		}
		return env, true
	}

	// Atom pattern: literal comparison, no binding.
	if term.IsAtom(expr) && term.Equal(pattern, expr) {
		return env, true
	}
	return nil, false
}

// markerName recognizes a two-element (marker name) form. The name must
// itself be a symbol; anything else is treated as a structural pattern.
func markerName(l term.List, marker string) (string, bool) {
	if len(l) != 2 {
		return "", false
	}
	head, ok := l[0].(term.Sym)
	if !ok || string(head) != marker {
		return "", false
	}
	name, ok := l[1].(term.Sym)
	if !ok {
		return "", false
	}
	return string(name), true
}
