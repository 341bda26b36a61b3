package chat

import "strings"

// ValidMessage rejects messages too short to carry a question. Gating
// is optional and off by default; single-word intents like "hi" are
// claimed by the dispatcher before this check ever runs.
func ValidMessage(message string) bool {
	return len(strings.Fields(message)) >= 2
}
