package dataset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/homerbot/internal/transcript"
)

func samplePairs() []transcript.Pair {
	return []transcript.Pair{
		{PromptSpeaker: "Bart Simpson", PromptText: "  Dad, can I have a dog? ", ResponseSpeaker: "Homer Simpson", ResponseText: "No.\n"},
		{PromptSpeaker: "Bart Simpson", PromptText: "Why?", ResponseSpeaker: "Homer Simpson", ResponseText: "Because <I> said so & that's final."},
	}
}

func TestToRecords_TrimsAndMapsRoles(t *testing.T) {
	records := ToRecords(samplePairs())
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	conv := records[0].Conversations
	if len(conv) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(conv))
	}
	if conv[0].Role != "user" || conv[0].Content != "Dad, can I have a dog?" {
		t.Errorf("user turn = %+v", conv[0])
	}
	if conv[1].Role != "assistant" || conv[1].Content != "No." {
		t.Errorf("assistant turn = %+v", conv[1])
	}
}

func TestExport_WritesJSONArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Bart Simpson conversations.json")

	records, err := Export(path, samplePairs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `<`) {
		t.Errorf("output should not HTML-escape: %s", data)
	}

	var got []Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not a JSON array of records: %v", err)
	}
	if got[1].Conversations[1].Content != "Because <I> said so & that's final." {
		t.Errorf("record 1 assistant = %q", got[1].Conversations[1].Content)
	}
}

func TestExport_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := os.WriteFile(path, []byte("stale content that is longer than nothing"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Export(path, samplePairs()[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	var got []Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("file not replaced cleanly: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 record, got %d", len(got))
	}
}

func TestExport_NoPairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	_, err := Export(path, nil)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("no file should be written, stat err = %v", statErr)
	}
}

func TestWriteFile_NoRecords(t *testing.T) {
	if err := WriteFile(filepath.Join(t.TempDir(), "x.json"), []Record{}); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestWriteGroups(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output_dialogues")
	groups := map[string][]transcript.Pair{
		"Lisa Simpson":     {{PromptSpeaker: "Lisa Simpson", PromptText: "Dad", ResponseSpeaker: "Homer Simpson", ResponseText: "Hm?"}},
		"Dr. Nick Riviera": {{PromptSpeaker: "Dr. Nick Riviera", PromptText: "Hi everybody!", ResponseSpeaker: "Homer Simpson", ResponseText: "Hi Dr. Nick!"}},
	}

	paths, err := WriteGroups(dir, groups)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "Dr_Nick_Riviera.json"),
		filepath.Join(dir, "Lisa_Simpson.json"),
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, paths[i], want[i])
		}
	}

	data, err := os.ReadFile(want[1])
	if err != nil {
		t.Fatal(err)
	}
	var pairs []map[string]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		t.Fatal(err)
	}
	if pairs[0]["character_1"] != "Lisa Simpson" || pairs[0]["words_2"] != "Hm?" {
		t.Errorf("unexpected dump %+v", pairs[0])
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Bart Simpson":        "Bart_Simpson",
		"Dr. Julius Hibbert":  "Dr_Julius_Hibbert",
		"Comic-Book Guy":      "Comic-Book_Guy",
		"Kent Brockman/Voice": "Kent_BrockmanVoice",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEncodeJSONL(t *testing.T) {
	data, err := EncodeJSONL(ToRecords(samplePairs()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var r Record
	if err := json.Unmarshal([]byte(lines[0]), &r); err != nil {
		t.Fatalf("line 0 is not a record: %v", err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	if got := DefaultOutputPath("Bart Simpson"); got != "Bart Simpson conversations.json" {
		t.Errorf("DefaultOutputPath = %q", got)
	}
}
