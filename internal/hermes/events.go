package hermes

import "time"

// SubjectDatasetExported is published after a dataset file is written (and
// published, when a registry is configured).
const SubjectDatasetExported = "homerbot.dataset.exported"

// DatasetExported describes one finished export.
type DatasetExported struct {
	ID           string    `json:"id"`
	Responder    string    `json:"responder"`
	Interlocutor string    `json:"interlocutor"`
	Pairs        int       `json:"pairs"`
	Path         string    `json:"path"`
	DatasetID    string    `json:"dataset_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
