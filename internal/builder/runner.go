package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/homerbot/internal/dataset"
	"github.com/MikeSquared-Agency/homerbot/internal/hermes"
	"github.com/MikeSquared-Agency/homerbot/internal/transcript"
)

// Config holds the build command configuration.
type Config struct {
	Responder         string
	Interlocutor      string
	AllowedCharacters []string // optional: keep only scenes spoken entirely by these characters
	OutputPath        string   // default: "<interlocutor> conversations.json"
	GroupsDir         string   // optional: also dump every interlocutor's raw pairs here
	DatasetID         string   // optional: "<owner>/<name>" to publish to the registry
}

// Source yields the full ordered transcript.
type Source interface {
	Rows(ctx context.Context) ([]transcript.Row, error)
}

// Publisher uploads exported records to a dataset registry.
type Publisher interface {
	Publish(ctx context.Context, repoID string, records []dataset.Record) error
}

// EventPublisher announces finished exports.
type EventPublisher interface {
	Publish(subject string, data any) error
}

// Notifier posts a human-readable summary.
type Notifier interface {
	PostSummary(ctx context.Context, text string) error
}

// Summary reports what one build produced.
type Summary struct {
	Rows          int
	Scenes        int
	KeptScenes    int
	Pairs         int
	Interlocutors int
	Exported      int
	OutputPath    string
	GroupFiles    []string
	DatasetID     string
}

// Runner builds a dialogue dataset from a transcript in one pass.
type Runner struct {
	cfg       Config
	source    Source
	publisher Publisher
	events    EventPublisher
	notifier  Notifier
	logger    *slog.Logger
}

// Option configures optional Runner collaborators.
type Option func(*Runner)

func WithPublisher(p Publisher) Option { return func(r *Runner) { r.publisher = p } }

func WithEvents(e EventPublisher) Option { return func(r *Runner) { r.events = e } }

func WithNotifier(n Notifier) Option { return func(r *Runner) { r.notifier = n } }

// NewRunner creates a build runner.
func NewRunner(cfg Config, src Source, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, source: src, logger: logger}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Runner) outputPath() string {
	if r.cfg.OutputPath != "" {
		return r.cfg.OutputPath
	}
	return dataset.DefaultOutputPath(r.cfg.Interlocutor)
}

// Run executes the build. The dataset file is written before publishing, and
// a publish failure is returned without removing it.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if r.cfg.Responder == "" {
		return nil, errors.New("responder is required")
	}
	if r.cfg.Interlocutor == "" {
		return nil, errors.New("interlocutor is required")
	}
	if r.cfg.DatasetID != "" && r.publisher == nil {
		return nil, errors.New("dataset id set but no publisher configured")
	}

	rows, err := r.source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	sum := &Summary{Rows: len(rows)}

	scenes := transcript.Segment(rows)
	sum.Scenes = len(scenes)
	if len(r.cfg.AllowedCharacters) > 0 {
		scenes = transcript.KeepOnlyAllowed(scenes, r.cfg.AllowedCharacters)
		r.logger.Info("allowlist filter applied",
			"allowed", strings.Join(r.cfg.AllowedCharacters, ","),
			"scenes_before", sum.Scenes,
			"scenes_after", len(scenes),
		)
	}

	var kept [][]transcript.Turn
	for _, sc := range scenes {
		turns := transcript.Merge(transcript.DropIncomplete(sc))
		if !transcript.KeepScene(turns, r.cfg.Responder) {
			continue
		}
		kept = append(kept, turns)
	}
	sum.KeptScenes = len(kept)

	r.logger.Info("transcript segmented",
		"rows", sum.Rows,
		"scenes", sum.Scenes,
		"kept_scenes", sum.KeptScenes,
		"responder", r.cfg.Responder,
	)

	if len(kept) == 0 {
		return sum, fmt.Errorf("no scene features %q: %w", r.cfg.Responder, dataset.ErrNoData)
	}

	pairs := transcript.GeneratePairs(kept, r.cfg.Responder)
	groups := transcript.Group(pairs)
	sum.Pairs = len(pairs)
	sum.Interlocutors = len(groups)

	r.logger.Info("pairs generated", "pairs", sum.Pairs, "interlocutors", sum.Interlocutors)

	if r.cfg.GroupsDir != "" {
		files, err := dataset.WriteGroups(r.cfg.GroupsDir, groups)
		sum.GroupFiles = files
		if err != nil {
			return sum, fmt.Errorf("write groups: %w", err)
		}
		r.logger.Info("interlocutor groups written", "dir", r.cfg.GroupsDir, "files", len(files))
	}

	path := r.outputPath()
	records, err := dataset.Export(path, groups[r.cfg.Interlocutor])
	if err != nil {
		return sum, fmt.Errorf("export %q: %w", r.cfg.Interlocutor, err)
	}
	sum.Exported = len(records)
	sum.OutputPath = path

	r.logger.Info("dataset written", "interlocutor", r.cfg.Interlocutor, "pairs", sum.Exported, "path", path)

	if r.cfg.DatasetID != "" {
		r.logger.Info("publishing dataset", "dataset_id", r.cfg.DatasetID)
		if err := r.publisher.Publish(ctx, r.cfg.DatasetID, records); err != nil {
			return sum, fmt.Errorf("publish %s: %w", r.cfg.DatasetID, err)
		}
		sum.DatasetID = r.cfg.DatasetID
		r.logger.Info("dataset published", "dataset_id", r.cfg.DatasetID)
	}

	r.announce(ctx, sum)
	return sum, nil
}

// announce reports a finished export. Failures are logged only: the dataset
// already exists by now.
func (r *Runner) announce(ctx context.Context, sum *Summary) {
	if r.events != nil {
		evt := hermes.DatasetExported{
			ID:           uuid.New().String(),
			Responder:    r.cfg.Responder,
			Interlocutor: r.cfg.Interlocutor,
			Pairs:        sum.Exported,
			Path:         sum.OutputPath,
			DatasetID:    sum.DatasetID,
			Timestamp:    time.Now().UTC(),
		}
		if err := r.events.Publish(hermes.SubjectDatasetExported, evt); err != nil {
			r.logger.Warn("failed to publish export event", "error", err)
		}
	}

	text := FormatSummary(r.cfg, sum)
	if r.notifier == nil {
		r.logger.Debug("build summary (no notifier configured)", "summary", text)
		return
	}
	if err := r.notifier.PostSummary(ctx, text); err != nil {
		r.logger.Warn("failed to post build summary, logging instead",
			"error", err,
			"summary", text,
		)
	}
}

// FormatSummary renders a Slack mrkdwn summary of a build.
func FormatSummary(cfg Config, sum *Summary) string {
	var sb strings.Builder
	sb.WriteString("*Persona dataset exported*\n")
	fmt.Fprintf(&sb, "Responder: %s | Interlocutor: %s\n", cfg.Responder, cfg.Interlocutor)
	fmt.Fprintf(&sb, "Rows: %d | Scenes: %d kept of %d\n", sum.Rows, sum.KeptScenes, sum.Scenes)
	fmt.Fprintf(&sb, "Pairs: %d across %d interlocutors, %d exported\n", sum.Pairs, sum.Interlocutors, sum.Exported)
	fmt.Fprintf(&sb, "File: %s\n", sum.OutputPath)
	if sum.DatasetID != "" {
		fmt.Fprintf(&sb, "Published: %s\n", sum.DatasetID)
	}
	return sb.String()
}
