package claude

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/hobbyhall/storefront/internal/vision"
)

type ClaudeAnalyzer struct {
	client *anthropic.Client
	model  string
}

func NewClaudeAnalyzer(apiKey, model string) *ClaudeAnalyzer {
	return &ClaudeAnalyzer{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}
}

func (a *ClaudeAnalyzer) Analyze(ctx context.Context, r io.Reader, mimeType string) (*vision.Suggestion, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(a.model),
		// A single listing line fits comfortably; headroom for chatty models.
		MaxTokens: 256,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
						anthropic.MessagesContentSourceTypeBase64,
						normaliseMIME(mimeType),
						imageData,
					)),
					anthropic.NewTextMessageContent(vision.SuggestPrompt),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude request failed: %w", err)
	}

	text := resp.GetFirstContentText()
	suggestion := vision.ParseSuggestion(text)
	if suggestion == nil {
		return nil, fmt.Errorf("claude response contained no listing: %q", text)
	}
	return suggestion, nil
}

// normaliseMIME maps anything unexpected to image/jpeg; the API rejects
// unknown media types outright.
func normaliseMIME(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png", "image/gif", "image/webp":
		return strings.ToLower(mimeType)
	default:
		return "image/jpeg"
	}
}
