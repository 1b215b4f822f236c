package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	g := NewGenerator(DefaultBytes)

	tok, err := g.Generate()
	require.NoError(t, err)
	assert.Len(t, tok, 32)

	other, err := g.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestGenerateUnique_RetriesOnCollision(t *testing.T) {
	g := NewGenerator(DefaultBytes)

	calls := 0
	tok, err := g.GenerateUnique(func(candidate string) bool {
		calls++
		return calls < 3 // first two candidates "exist"
	}, 5)

	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, 3, calls)
}

func TestGenerateUnique_GivesUp(t *testing.T) {
	g := NewGenerator(DefaultBytes)

	_, err := g.GenerateUnique(func(string) bool { return true }, 4)
	assert.Error(t, err)
}
