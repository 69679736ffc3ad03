package model

import "time"

// Role identifies who authored a turn in the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single chat message in the conversation.
// Turns are values: callers receive copies and cannot alter stored history.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// IsUser reports whether the turn was written by the user.
func (t Turn) IsUser() bool {
	return t.Role == RoleUser
}
