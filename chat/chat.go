package chat

import (
	"github.com/kbukum/webgen/errors"
)

// Role identifies who authored a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	// RoleAssistant is accepted from clients that use the OpenAI naming.
	// It is forwarded as sent.
	RoleAssistant Role = "assistant"
)

// MsgEmptyTurn is returned for a turn that carries no parts.
const MsgEmptyTurn = "Each chat turn requires at least one part"

// Part is one text segment of a turn.
type Part struct {
	Text string `json:"text"`
}

// Turn is one message in a conversation.
type Turn struct {
	Role  Role   `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Text returns the text of the first part, or "" if there is none.
func (t Turn) Text() string {
	if len(t.Parts) == 0 {
		return ""
	}
	return t.Parts[0].Text
}

// History is an ordered conversation. Order is significant and preserved.
type History []Turn

// FromPrompt promotes a single prompt to a one-turn history.
func FromPrompt(prompt string) History {
	return History{{Role: RoleUser, Parts: []Part{{Text: prompt}}}}
}

// Validate checks the history is usable for generation.
func (h History) Validate() error {
	if len(h) == 0 {
		return errors.InvalidRequest(errors.MsgChatHistoryRequired)
	}
	for i, turn := range h {
		if len(turn.Parts) == 0 {
			return errors.InvalidRequest(MsgEmptyTurn).WithDetail("turn", i)
		}
	}
	return nil
}

// Last returns the newest turn.
func (h History) Last() (Turn, bool) {
	if len(h) == 0 {
		return Turn{}, false
	}
	return h[len(h)-1], true
}
