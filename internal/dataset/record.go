package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/homerbot/internal/transcript"
)

// Message is one turn of a chat-format training example.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Record is a two-turn conversation: the interlocutor as "user" and the
// responder as "assistant".
type Record struct {
	Conversations []Message `json:"conversations"`
}

// ToRecords converts pairs to records in order, trimming surrounding
// whitespace from both turns.
func ToRecords(pairs []transcript.Pair) []Record {
	records := make([]Record, 0, len(pairs))
	for _, p := range pairs {
		records = append(records, Record{
			Conversations: []Message{
				{Role: "user", Content: strings.TrimSpace(p.PromptText)},
				{Role: "assistant", Content: strings.TrimSpace(p.ResponseText)},
			},
		})
	}
	return records
}

// EncodeJSONL renders records one JSON object per line.
func EncodeJSONL(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i, r := range records {
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
