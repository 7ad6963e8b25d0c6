package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestion(t *testing.T) {
	s := ParseSuggestion("Catan | board-games | Classic resource-trading game for 3-4 players")
	require.NotNil(t, s)
	assert.Equal(t, "Catan", s.Name)
	assert.Equal(t, "board-games", s.Category)
	assert.Equal(t, "Classic resource-trading game for 3-4 players", s.Description)
}

func TestParseSuggestionSkipsPreamble(t *testing.T) {
	raw := "Here is the listing you asked for:\nDice Set | accessories | Seven polyhedral dice"
	s := ParseSuggestion(raw)
	require.NotNil(t, s)
	assert.Equal(t, "Dice Set", s.Name)
	assert.Equal(t, raw, s.RawResponse)
}

func TestParseSuggestionPartialLine(t *testing.T) {
	s := ParseSuggestion("Paint Brush Set")
	require.NotNil(t, s)
	assert.Equal(t, "Paint Brush Set", s.Name)
	assert.Empty(t, s.Category)
	assert.Empty(t, s.Description)
}

func TestParseSuggestionPipeInDescription(t *testing.T) {
	s := ParseSuggestion("X-Wing | miniatures | Ships | pilots | upgrades in one box")
	require.NotNil(t, s)
	assert.Equal(t, "Ships | pilots | upgrades in one box", s.Description)
}

func TestParseSuggestionEmpty(t *testing.T) {
	assert.Nil(t, ParseSuggestion(""))
	assert.Nil(t, ParseSuggestion("\n\n  \n"))
	assert.Nil(t, ParseSuggestion(" | no name | here"))
}
