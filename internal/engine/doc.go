// Package engine implements the term-rewriting core: structural pattern
// matching, skeleton instantiation, best-effort partial evaluation, and
// the rewrite driver that applies an ordered rule set to an expression
// until it converges or the iteration budget runs out.
//
// All operations are pure with respect to their inputs. Match failure is
// an ordinary result, not an error; unresolved symbols and operators
// degrade to symbolic residue instead of failing. The only side channel
// is the optional trace observer, whose notifications are fire-and-forget
// and cannot alter the rewrite.
//
// Evaluation is single-threaded and synchronous. Independent rewrites may
// run concurrently on different expressions since expression trees and
// binding environments are treated as immutable values, but the engine
// itself provides no synchronization.
package engine
