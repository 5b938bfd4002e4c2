package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type stubModel struct {
	choices []Choice
	err     error
	got     []Message
}

func (s *stubModel) ChatCompletion(_ context.Context, messages []Message) ([]Choice, error) {
	s.got = messages
	return s.choices, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInvoke_ReturnsFirstChoice(t *testing.T) {
	model := &stubModel{choices: []Choice{{Content: "Mmm... donuts.", FinishReason: "stop"}, {Content: "ignored"}}}
	a := NewAdapter(model, "", discardLogger())

	reply, err := a.Invoke(context.Background(), "Want a donut?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Mmm... donuts." {
		t.Errorf("expected first choice, got %q", reply)
	}
	if len(model.got) != 1 || model.got[0].Role != "user" || model.got[0].Content != "Want a donut?" {
		t.Errorf("unexpected messages %+v", model.got)
	}
}

func TestInvoke_PrependsPersona(t *testing.T) {
	model := &stubModel{choices: []Choice{{Content: "Woo-hoo!"}}}
	a := NewAdapter(model, DefaultPersona, discardLogger())

	if _, err := a.Invoke(context.Background(), "Hi Dad"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(model.got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(model.got))
	}
	if model.got[0].Role != "assistant" || model.got[0].Content != DefaultPersona {
		t.Errorf("persona turn = %+v", model.got[0])
	}
	if model.got[1].Role != "user" || model.got[1].Content != "Hi Dad" {
		t.Errorf("user turn = %+v", model.got[1])
	}
}

func TestInvoke_NoChoices(t *testing.T) {
	a := NewAdapter(&stubModel{choices: []Choice{}}, "", discardLogger())

	reply, err := a.Invoke(context.Background(), "hello?")
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}
	if reply != "" {
		t.Errorf("expected no reply on error, got %q", reply)
	}
}

func TestInvoke_BlankContent(t *testing.T) {
	a := NewAdapter(&stubModel{choices: []Choice{{Content: "  \n", FinishReason: "length"}}}, "", discardLogger())

	_, err := a.Invoke(context.Background(), "hello?")
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}
}

func TestInvoke_ModelError(t *testing.T) {
	boom := errors.New("connection refused")
	a := NewAdapter(&stubModel{err: boom}, "", discardLogger())

	_, err := a.Invoke(context.Background(), "hello?")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped model error, got %v", err)
	}
	if errors.Is(err, ErrNoResponse) {
		t.Errorf("transport failure should not be ErrNoResponse")
	}
}
