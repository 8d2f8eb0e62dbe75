package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_Deterministic(t *testing.T) {
	a, err := ParseSexpr("((+ (? x) 0) (: x))\n((* (? x) 1) (: x))")
	require.NoError(t, err)
	b, err := ParseSexpr("((+ (? x) 0) (: x))\n((* (? x) 1) (: x))")
	require.NoError(t, err)

	assert.Equal(t, Hash(a), Hash(b))
	assert.Len(t, Hash(a), 64, "hex-encoded sha256")
}

func TestHash_OrderSensitive(t *testing.T) {
	forward, err := ParseSexpr("((+ (? x) 0) (: x))\n((* (? x) 1) (: x))")
	require.NoError(t, err)
	reversed, err := ParseSexpr("((* (? x) 1) (: x))\n((+ (? x) 0) (: x))")
	require.NoError(t, err)

	assert.NotEqual(t, Hash(forward), Hash(reversed))
}

func TestHash_ContentSensitive(t *testing.T) {
	a, err := ParseSexpr("((+ (? x) 0) (: x))")
	require.NoError(t, err)
	b, err := ParseSexpr("((+ (? x) 0) 0)")
	require.NoError(t, err)

	assert.NotEqual(t, Hash(a), Hash(b))
}

func TestHash_UnicodeNormalization(t *testing.T) {
	// U+00E9 precomposed vs e + U+0301 combining acute.
	composed, err := ParseSexpr("((f é) 1)")
	require.NoError(t, err)
	decomposed, err := ParseSexpr("((f é) 1)")
	require.NoError(t, err)

	assert.Equal(t, Hash(composed), Hash(decomposed))
}

func TestHash_Empty(t *testing.T) {
	assert.Len(t, Hash(nil), 64)
	assert.Equal(t, Hash(nil), Hash(RuleSet{}))
}
