// Package prompt builds the ordered message list sent to a vendor from
// whatever history the web client supplies. Validation lives here, once,
// instead of being repeated in each vendor client.
package prompt

import (
	"github.com/milkyai/milky-relay/internal/llm"
	"github.com/milkyai/milky-relay/internal/models"
)

// RawMessage is a history entry as the client sent it. Either field may
// be missing or nonsense.
type RawMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Assemble produces a well-formed conversation:
//   - entries without content are dropped
//   - missing or unknown roles coerce to user
//   - exactly one system message, first, carrying the mode-appropriate
//     template (a system message carried over in history is replaced,
//     since the prompt is per-model and per-mode, not per-turn)
//   - the final message is the user's current input
func Assemble(history []RawMessage, input string, d models.Descriptor, deepThinking bool) []llm.Message {
	out := make([]llm.Message, 0, len(history)+2)
	out = append(out, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt(d, deepThinking)})

	for _, m := range history {
		if m.Content == "" {
			continue
		}
		role := m.Role
		if !llm.ValidRole(role) {
			role = llm.RoleUser
		}
		if role == llm.RoleSystem {
			// already replaced above
			continue
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}

	if out[len(out)-1].Role != llm.RoleUser {
		out = append(out, llm.Message{Role: llm.RoleUser, Content: input})
	}
	return out
}
