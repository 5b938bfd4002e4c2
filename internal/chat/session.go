package chat

import (
	"context"

	"github.com/google/uuid"
)

// Session is one conversation with the persona: an id and the ordered
// history shown to the user. It is not safe for concurrent use.
type Session struct {
	ID       uuid.UUID
	Messages []Message
}

func NewSession() *Session {
	return &Session{ID: uuid.New()}
}

// Send records the user turn, asks inv for a reply and records it. When inv
// fails the user turn stays in the history and the error is returned.
func (s *Session) Send(ctx context.Context, inv Invoker, text string) (string, error) {
	s.Append("user", text)

	reply, err := inv.Invoke(ctx, text)
	if err != nil {
		return "", err
	}

	s.Append("assistant", reply)
	return reply, nil
}

// Append adds one turn to the history.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// History returns a copy of the messages so far.
func (s *Session) History() []Message {
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}
