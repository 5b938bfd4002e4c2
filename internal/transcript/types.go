package transcript

// Row is a single line of a script table. An empty field means the cell was
// absent in the source.
type Row struct {
	Speaker string
	Text    string
}

// IsBoundary reports whether the row separates two scenes.
func (r Row) IsBoundary() bool {
	return r.Speaker == "" && r.Text == ""
}

// Scene is a contiguous run of rows between boundary rows, in source order.
type Scene []Row

// Turn is one or more consecutive same-speaker rows collapsed into one.
type Turn struct {
	Speaker string
	Text    string
}

// Pair is a prompt turn immediately followed by the responder's turn.
// The JSON keys match the per-interlocutor dumps written by dataset.WriteGroups.
type Pair struct {
	PromptSpeaker   string `json:"character_1"`
	PromptText      string `json:"words_1"`
	ResponseSpeaker string `json:"character_2"`
	ResponseText    string `json:"words_2"`
}
