package transcript

import "strings"

// Merge collapses maximal runs of consecutive rows with the same speaker into
// one Turn. Non-empty texts of a run are joined with a single space in row
// order; a run with no text at all yields a Turn with empty Text.
func Merge(rows []Row) []Turn {
	if len(rows) == 0 {
		return nil
	}

	var turns []Turn
	speaker := rows[0].Speaker
	var parts []string

	flush := func() {
		turns = append(turns, Turn{Speaker: speaker, Text: strings.Join(parts, " ")})
		parts = nil
	}

	for _, r := range rows {
		if r.Speaker != speaker {
			flush()
			speaker = r.Speaker
		}
		if r.Text != "" {
			parts = append(parts, r.Text)
		}
	}
	flush()

	return turns
}
