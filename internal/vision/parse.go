package vision

import (
	"strings"
)

// ParseSuggestion parses a vision model response in the format
// name | category | description, taking the first usable line. It returns
// nil when no line yields a name.
func ParseSuggestion(raw string) *Suggestion {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Skip common preamble lines some models emit despite the prompt.
		if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") || strings.HasPrefix(line, "Based on") {
			continue
		}

		parts := strings.Split(line, "|")
		s := &Suggestion{
			Name:        strings.TrimSpace(parts[0]),
			RawResponse: raw,
		}
		if len(parts) >= 2 {
			s.Category = strings.TrimSpace(parts[1])
		}
		if len(parts) >= 3 {
			s.Description = strings.TrimSpace(strings.Join(parts[2:], "|"))
		}
		if s.Name != "" {
			return s
		}
	}
	return nil
}
