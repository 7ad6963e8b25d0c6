package vision

import (
	"context"
	"io"
)

// SuggestPrompt is the shared prompt used by all vision adapters.
const SuggestPrompt = `You are looking at a photo of a single retail product sold by a game and
hobby store (board games, card games, miniatures, paints, accessories).
Respond with exactly one line describing it for a store listing,
format: name | category | description`

// Analyzer turns a product photo into a draft listing.
type Analyzer interface {
	Analyze(ctx context.Context, r io.Reader, mimeType string) (*Suggestion, error)
}

// Suggestion is a model-proposed product listing. All fields are advisory;
// staff edit them before saving.
type Suggestion struct {
	Name        string
	Category    string
	Description string
	RawResponse string
}
