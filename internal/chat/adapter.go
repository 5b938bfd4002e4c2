// Package chat turns a locally served persona model into a single
// invoke(text) -> text call and keeps per-session message history.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNoResponse is returned when the model produced no usable completion.
var ErrNoResponse = errors.New("no response from model")

// DefaultPersona is prepended as an assistant turn so the model answers in character.
const DefaultPersona = "I'm Homer Simpson! I work at the Springfield Nuclear Power Plant " +
	"(don't ask me what I do there, I mostly push buttons and hope nothing explodes). " +
	"I love beer, donuts, sleeping at work, and watching TV... Mmm... TV..."

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Choice is one completion candidate returned by a Model.
type Choice struct {
	Content      string
	FinishReason string
}

// Model is a chat-completion backend.
type Model interface {
	ChatCompletion(ctx context.Context, messages []Message) ([]Choice, error)
}

// Invoker answers one user message.
type Invoker interface {
	Invoke(ctx context.Context, text string) (string, error)
}

// Adapter sends each user message to the model on its own, optionally behind
// a fixed persona turn. It keeps no history; see Session for that.
type Adapter struct {
	model   Model
	persona string
	logger  *slog.Logger
}

func NewAdapter(model Model, persona string, logger *slog.Logger) *Adapter {
	return &Adapter{model: model, persona: persona, logger: logger}
}

// Invoke returns the first choice's content. Errors are not retried.
func (a *Adapter) Invoke(ctx context.Context, text string) (string, error) {
	messages := make([]Message, 0, 2)
	if a.persona != "" {
		messages = append(messages, Message{Role: "assistant", Content: a.persona})
	}
	messages = append(messages, Message{Role: "user", Content: text})

	choices, err := a.model.ChatCompletion(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(choices) == 0 {
		return "", ErrNoResponse
	}

	reply := choices[0].Content
	if strings.TrimSpace(reply) == "" {
		a.logger.Warn("model returned empty completion", "finish_reason", choices[0].FinishReason)
		return "", fmt.Errorf("%w: empty content (finish_reason=%q)", ErrNoResponse, choices[0].FinishReason)
	}

	a.logger.Debug("chat completion",
		"prompt_len", len(text),
		"reply_len", len(reply),
		"finish_reason", choices[0].FinishReason,
	)
	return reply, nil
}
