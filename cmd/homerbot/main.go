package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/homerbot/internal/api"
	"github.com/MikeSquared-Agency/homerbot/internal/builder"
	"github.com/MikeSquared-Agency/homerbot/internal/chat"
	"github.com/MikeSquared-Agency/homerbot/internal/config"
	"github.com/MikeSquared-Agency/homerbot/internal/hermes"
	"github.com/MikeSquared-Agency/homerbot/internal/hub"
	"github.com/MikeSquared-Agency/homerbot/internal/slack"
	"github.com/MikeSquared-Agency/homerbot/internal/store"
	"github.com/MikeSquared-Agency/homerbot/internal/transcript"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	root := &cobra.Command{
		Use:           "homerbot",
		Short:         "Build a Simpsons persona dialogue dataset and chat with the tuned model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(buildCmd(&cfg), serveCmd(&cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("homerbot failed", "error", err)
		os.Exit(1)
	}
}

func buildCmd(cfg *config.Config) *cobra.Command {
	var allowed string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Turn a transcript into a chat-format dataset for one interlocutor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("allowed") {
				cfg.AllowedCharacters = splitList(allowed)
			}
			return runBuild(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.TranscriptPath, "transcript", cfg.TranscriptPath, "path to the transcript CSV")
	f.StringVar(&cfg.Responder, "responder", cfg.Responder, "character whose lines become assistant replies")
	f.StringVar(&cfg.Interlocutor, "interlocutor", cfg.Interlocutor, "character whose pairs are exported")
	f.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, `dataset file (default "<interlocutor> conversations.json")`)
	f.StringVar(&cfg.GroupsDir, "groups-dir", cfg.GroupsDir, "also write raw pairs for every interlocutor here")
	f.StringVar(&cfg.DatasetID, "dataset-id", cfg.DatasetID, "publish the dataset as <owner>/<name>")
	f.StringVar(&allowed, "allowed", strings.Join(cfg.AllowedCharacters, ","), "comma separated characters; keep only scenes spoken entirely by them")

	return cmd
}

func runBuild(ctx context.Context, cfg *config.Config) error {
	logger := slog.Default()

	var src builder.Source
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		slog.Info("database connected, reading transcript from postgres")
		src = store.NewSource(db, cfg.TranscriptQuery)
	} else {
		src = transcript.FileSource{
			Path:    cfg.TranscriptPath,
			Columns: transcript.Columns{Speaker: cfg.SpeakerColumn, Text: cfg.TextColumn},
		}
		slog.Info("reading transcript", "path", cfg.TranscriptPath)
	}

	var opts []builder.Option

	if cfg.DatasetID != "" {
		opts = append(opts, builder.WithPublisher(hub.NewClient(cfg.HubEndpoint, cfg.HubToken)))
	}

	// NATS is optional; the build works without it, just no export event.
	if cfg.NatsURL != "" {
		hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, logger)
		if err != nil {
			slog.Warn("failed to connect to NATS, continuing without events", "error", err)
		} else {
			defer hermesClient.Close()
			opts = append(opts, builder.WithEvents(hermesClient))
			slog.Info("NATS connected", "url", cfg.NatsURL)
		}
	}

	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		opts = append(opts, builder.WithNotifier(slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, logger)))
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	}

	bcfg := builder.Config{
		Responder:         cfg.Responder,
		Interlocutor:      cfg.Interlocutor,
		AllowedCharacters: cfg.AllowedCharacters,
		OutputPath:        cfg.OutputPath,
		GroupsDir:         cfg.GroupsDir,
		DatasetID:         cfg.DatasetID,
	}

	sum, err := builder.NewRunner(bcfg, src, logger, opts...).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nBuild complete:\n")
	fmt.Printf("  Transcript rows:   %d\n", sum.Rows)
	fmt.Printf("  Scenes kept:       %d of %d\n", sum.KeptScenes, sum.Scenes)
	fmt.Printf("  Total pairs:       %d\n", sum.Pairs)
	fmt.Printf("  Interlocutors:     %d\n", sum.Interlocutors)
	fmt.Printf("  Exported (%s): %d -> %s\n", cfg.Interlocutor, sum.Exported, sum.OutputPath)
	if len(sum.GroupFiles) > 0 {
		fmt.Printf("  Group files:       %d in %s\n", len(sum.GroupFiles), cfg.GroupsDir)
	}
	if sum.DatasetID != "" {
		fmt.Printf("  Published:         %s\n", sum.DatasetID)
	}
	return nil
}

func serveCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the persona chat over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	f.StringVar(&cfg.ModelURL, "model-url", cfg.ModelURL, "base URL of the OpenAI-compatible model server")
	f.StringVar(&cfg.Model, "model", cfg.Model, "model name sent with each request")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	model, err := chat.NewOpenAIModel(cfg.ModelURL, cfg.Model, cfg.ModelAPIKey, time.Duration(cfg.ModelTimeout)*time.Second)
	if err != nil {
		return fmt.Errorf("create model client: %w", err)
	}
	slog.Info("model client ready", "url", cfg.ModelURL, "model", cfg.Model)

	persona := chat.DefaultPersona
	switch {
	case strings.EqualFold(cfg.Persona, "off"):
		persona = ""
	case cfg.Persona != "":
		persona = cfg.Persona
	}

	adapter := chat.NewAdapter(model, persona, slog.Default())
	srv := api.NewServer(cfg.Port, adapter, slog.Default())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	slog.Info("homerbot ready", "port", cfg.Port, "persona", persona != "")

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down")
		return nil
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
