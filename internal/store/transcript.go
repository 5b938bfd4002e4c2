package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/homerbot/internal/transcript"
)

// DefaultTranscriptQuery reads the script_lines table of the Simpsons dataset.
const DefaultTranscriptQuery = `SELECT raw_character_text, spoken_words FROM script_lines ORDER BY id`

// LoadRows runs query and maps its first two columns to speaker and text.
// NULL values become empty fields, so a row of two NULLs is a scene boundary.
func (s *Store) LoadRows(ctx context.Context, query string) ([]transcript.Row, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	if n := len(rows.FieldDescriptions()); n < 2 {
		rows.Close()
		return nil, fmt.Errorf("query returned %d columns: %w", n, transcript.ErrMissingColumn)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (transcript.Row, error) {
		var speaker, text *string
		if err := row.Scan(&speaker, &text); err != nil {
			return transcript.Row{}, err
		}
		var r transcript.Row
		if speaker != nil {
			r.Speaker = *speaker
		}
		if text != nil {
			r.Text = *text
		}
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return out, nil
}

// Source adapts a Store and query to the pipeline's row source.
type Source struct {
	store *Store
	query string
}

func NewSource(s *Store, query string) *Source {
	if query == "" {
		query = DefaultTranscriptQuery
	}
	return &Source{store: s, query: query}
}

func (s *Source) Rows(ctx context.Context) ([]transcript.Row, error) {
	return s.store.LoadRows(ctx, s.query)
}
