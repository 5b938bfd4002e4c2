package transcript

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrMalformedRow is returned when a record has no field for a required column.
	ErrMalformedRow = errors.New("malformed row")
)

// Columns names the speaker and text columns of a script table.
type Columns struct {
	Speaker string
	Text    string
}

// DefaultColumns matches the Simpsons script dataset export.
var DefaultColumns = Columns{
	Speaker: "raw_character_text",
	Text:    "spoken_words",
}

// LoadCSV reads a header row followed by records. Empty cells become empty
// fields. Blank lines are skipped by the CSV reader, so scene boundaries must
// be written as records with empty cells (",,").
func LoadCSV(r io.Reader, cols Columns) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty transcript: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	speakerIdx, textIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case cols.Speaker:
			speakerIdx = i
		case cols.Text:
			textIdx = i
		}
	}
	if speakerIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.Speaker)
	}
	if textIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.Text)
	}
	// A record must reach the first required column. A missing cell past
	// that reads as empty, like any other absent value.
	need := min(speakerIdx, textIdx)

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if len(rec) <= need {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w: %d fields", line, ErrMalformedRow, len(rec))
		}
		rows = append(rows, Row{Speaker: field(rec, speakerIdx), Text: field(rec, textIdx)})
	}

	return rows, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// FileSource loads rows from a CSV file on disk.
type FileSource struct {
	Path    string
	Columns Columns
}

// Rows opens the file and parses it with LoadCSV.
func (s FileSource) Rows(_ context.Context) ([]Row, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	rows, err := LoadCSV(f, s.Columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return rows, nil
}
