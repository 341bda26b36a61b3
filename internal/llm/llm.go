package llm

import (
	"context"
	"strings"
)

// Client completes a single assembled prompt. The chat layer builds the
// full prompt text; clients only carry it to a model and hand back the
// raw completion.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// StripMarkdown removes a surrounding markdown code fence from a model
// completion. Models often wrap generated SQL in ```sql fences even when
// told not to.
func StripMarkdown(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
