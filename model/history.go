// Package model holds the provider-agnostic conversation types shared by the
// provider adapters and the chat client.
package model

import (
	"time"

	"github.com/google/uuid"
)

// History is the ordered, append-only log of a conversation.
//
// Turns are only ever added in user/assistant pairs, so after every completed
// exchange the log has even length and strictly alternates starting with a
// user turn. History is not safe for concurrent use; the owning client must
// serialize access.
type History struct {
	id       string
	turns    []Turn
	maxPairs int
	now      func() time.Time
}

// NewHistory creates an empty history.
//
// maxPairs caps the number of stored exchanges; when the cap is exceeded the
// oldest pairs are dropped. Zero or a negative value keeps every exchange
// until Clear is called.
func NewHistory(maxPairs int) *History {
	if maxPairs < 0 {
		maxPairs = 0
	}
	return &History{
		id:       uuid.New().String(),
		maxPairs: maxPairs,
		now:      time.Now,
	}
}

// ID returns the conversation identifier. It changes whenever the history is cleared.
func (h *History) ID() string {
	return h.id
}

// Append records one completed exchange: the user's message followed by the
// assistant's reply. Both turns are added in a single step.
func (h *History) Append(userText, assistantText string) {
	ts := h.now()
	h.turns = append(h.turns,
		Turn{Role: RoleUser, Content: userText, Timestamp: ts},
		Turn{Role: RoleAssistant, Content: assistantText, Timestamp: ts},
	)

	if h.maxPairs > 0 && len(h.turns) > 2*h.maxPairs {
		drop := len(h.turns) - 2*h.maxPairs
		h.turns = append([]Turn(nil), h.turns[drop:]...)
	}
}

// Recent returns a copy of the last n turns in chronological order.
// It returns every turn when n exceeds the history length.
func (h *History) Recent(n int) []Turn {
	if n <= 0 || len(h.turns) == 0 {
		return []Turn{}
	}
	if n > len(h.turns) {
		n = len(h.turns)
	}
	out := make([]Turn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// Turns returns a copy of the full history.
func (h *History) Turns() []Turn {
	return h.Recent(len(h.turns))
}

// Len returns the number of stored turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Clear drops every turn and starts a new conversation id.
func (h *History) Clear() {
	h.turns = nil
	h.id = uuid.New().String()
}
