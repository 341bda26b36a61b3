package chat

import "strings"

type Role string

const (
	RoleUser      Role = "human"
	RoleAssistant Role = "ai"
)

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the append-only turn log for one conversation. Turns are
// never rewritten; every reply path appends exactly one assistant turn.
type History struct {
	turns []Turn
}

// Opening line shown before the user has said anything.
const WelcomeMessage = "Hello! I'm Yokie- Your AI assistant. Ask me anything about your Home inventory."

func NewHistory() *History {
	return &History{turns: []Turn{{Role: RoleAssistant, Content: WelcomeMessage}}}
}

func (h *History) Append(role Role, content string) {
	h.turns = append(h.turns, Turn{Role: role, Content: content})
}

// Turns returns a copy so callers cannot mutate the log.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int {
	return len(h.turns)
}

// Render formats the log for prompt interpolation, one turn per line.
func (h *History) Render() string {
	lines := make([]string, 0, len(h.turns))
	for _, turn := range h.turns {
		label := "Human"
		if turn.Role == RoleAssistant {
			label = "AI"
		}
		lines = append(lines, label+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}
