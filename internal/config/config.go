package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	LogLevel string

	// Dataset build.
	TranscriptPath    string
	SpeakerColumn     string
	TextColumn        string
	TranscriptQuery   string
	DatabaseURL       string
	Responder         string
	Interlocutor      string
	AllowedCharacters []string
	OutputPath        string
	GroupsDir         string
	DatasetID         string
	HubToken          string
	HubEndpoint       string
	NatsURL           string
	NatsToken         string
	SlackBotToken     string
	SlackChannel      string

	// Chat server.
	Port         int
	ModelURL     string
	Model        string
	ModelAPIKey  string
	ModelTimeout int // seconds
	Persona      string // empty selects the built-in persona, "off" disables it
}

func Load() Config {
	return Config{
		LogLevel:          envStr("LOG_LEVEL", "info"),
		TranscriptPath:    envStr("HOMERBOT_TRANSCRIPT", "simpsons_dataset.csv"),
		SpeakerColumn:     envStr("HOMERBOT_SPEAKER_COLUMN", "raw_character_text"),
		TextColumn:        envStr("HOMERBOT_TEXT_COLUMN", "spoken_words"),
		TranscriptQuery:   envStr("HOMERBOT_TRANSCRIPT_QUERY", ""),
		DatabaseURL:       envStr("DATABASE_URL", ""),
		Responder:         envStr("HOMERBOT_RESPONDER", "Homer Simpson"),
		Interlocutor:      envStr("HOMERBOT_INTERLOCUTOR", "Bart Simpson"),
		AllowedCharacters: envList("HOMERBOT_ALLOWED_CHARACTERS"),
		OutputPath:        envStr("HOMERBOT_OUTPUT", ""),
		GroupsDir:         envStr("HOMERBOT_GROUPS_DIR", ""),
		DatasetID:         envStr("HOMERBOT_DATASET_ID", ""),
		HubToken:          envStr("HUGGINGFACE_TOKEN", ""),
		HubEndpoint:       envStr("HUGGINGFACE_ENDPOINT", "https://huggingface.co"),
		NatsURL:           envStr("NATS_URL", ""),
		NatsToken:         envStr("NATS_TOKEN", ""),
		SlackBotToken:     envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:      envStr("SLACK_CHANNEL", ""),
		Port:              envInt("HOMERBOT_PORT", 8760),
		ModelURL:          envStr("HOMERBOT_MODEL_URL", "http://localhost:8080/v1"),
		Model:             envStr("HOMERBOT_MODEL", "models/bart_homer.gguf"),
		ModelAPIKey:       envStr("HOMERBOT_MODEL_API_KEY", "sk-no-key-required"),
		ModelTimeout:      envInt("HOMERBOT_MODEL_TIMEOUT", 300),
		Persona:           envStr("HOMERBOT_PERSONA", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envList splits a comma separated value, dropping blank entries.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
