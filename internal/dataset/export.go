package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/MikeSquared-Agency/homerbot/internal/transcript"
)

// ErrNoData is returned instead of writing an empty dataset.
var ErrNoData = errors.New("no data to export")

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_\- ]`)

// Export converts pairs to records and writes them to path.
func Export(path string, pairs []transcript.Pair) ([]Record, error) {
	if len(pairs) == 0 {
		return nil, ErrNoData
	}
	records := ToRecords(pairs)
	if err := WriteFile(path, records); err != nil {
		return nil, err
	}
	return records, nil
}

// WriteFile writes records as an indented JSON array, replacing any existing file.
func WriteFile(path string, records []Record) error {
	if len(records) == 0 {
		return ErrNoData
	}
	return writeJSON(path, records)
}

// WriteGroups writes one JSON file of raw pairs per interlocutor into dir and
// returns the written paths sorted by interlocutor name.
func WriteGroups(dir string, groups map[string][]transcript.Pair) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, SanitizeFilename(name)+".json")
		if err := writeJSON(path, groups[name]); err != nil {
			return paths, fmt.Errorf("write %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SanitizeFilename drops characters outside [A-Za-z0-9_- ] and replaces
// spaces with underscores.
func SanitizeFilename(name string) string {
	return strings.ReplaceAll(unsafeFilenameChars.ReplaceAllString(name, ""), " ", "_")
}

// DefaultOutputPath is the file name used when no output path is configured.
func DefaultOutputPath(interlocutor string) string {
	return interlocutor + " conversations.json"
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return f.Close()
}
