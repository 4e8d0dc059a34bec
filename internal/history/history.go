package history

import (
	"fmt"
	"strings"
)

// Role tags one turn within a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message. Immutable once appended; persisted as
// a plain {role, content} JSON object.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the ordered conversation of a single user, oldest first.
// A well-formed history always starts with the seed system turn.
type History []Turn

// Seed returns a fresh one-turn history carrying the assistant persona.
func Seed(persona string) History {
	return History{{Role: RoleSystem, Content: persona}}
}

// Append returns h extended with one turn. The receiver is not modified,
// so a caller holding the loaded value can still compare against it.
func (h History) Append(role Role, content string) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, Turn{Role: role, Content: content})
}

// Clone returns an independent copy, used by stores to keep callers from
// aliasing their internal state.
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Transcript renders the history as one "role: content" line per turn.
// This is the reply body for the list command.
func (h History) Transcript() string {
	var b strings.Builder
	for i, t := range h {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", t.Role, t.Content)
	}
	return b.String()
}
