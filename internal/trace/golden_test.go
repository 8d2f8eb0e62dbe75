package trace

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/rho-lang/rho/internal/engine"
	"github.com/rho-lang/rho/internal/sexpr"
)

// Golden trace tests pin the exact snapshot bytes for known rewrites.
// Fixed session IDs keep the output deterministic; regenerate with
// go test ./internal/trace -update after an intentional format change.

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGolden_RewriteAddZero(t *testing.T) {
	rec := NewRecorder(WithGenerator(NewFixedGenerator("session-0001")))
	rw := engine.New(addZeroRules(), engine.WithObserver(rec))

	rw.Rewrite(sexpr.MustParse("(+ x 0)"))

	snap, err := rec.Session().Snapshot()
	require.NoError(t, err)
	newGoldie(t).Assert(t, "rewrite_add_zero", snap)
}

func TestGolden_FoldConstants(t *testing.T) {
	rec := NewRecorder(
		WithGenerator(NewFixedGenerator("session-0002")),
		WithRuleHash("test-hash"),
	)
	rw := engine.New(addZeroRules(), engine.WithObserver(rec))

	rw.Rewrite(sexpr.MustParse("(+ x (* 2 3))"))

	snap, err := rec.Session().Snapshot()
	require.NoError(t, err)
	newGoldie(t).Assert(t, "fold_constants", snap)
}
