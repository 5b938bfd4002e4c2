package chat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// DefaultModelURL is where llama.cpp's llama-server exposes its OpenAI-compatible API.
const DefaultModelURL = "http://localhost:8080/v1"

// OpenAIModel talks to an OpenAI-compatible chat completion endpoint, such as
// llama-server serving the fine-tuned GGUF artifact.
type OpenAIModel struct {
	client oai.Client
	model  string
}

// NewOpenAIModel builds a client for baseURL. model is passed through as the
// model id; llama-server accepts the artifact path here.
func NewOpenAIModel(baseURL, model, apiKey string, timeout time.Duration) (*OpenAIModel, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("chat: model url must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("chat: model must not be empty")
	}

	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(baseURL, "/") + "/"),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: timeout}))
	}

	return &OpenAIModel{client: oai.NewClient(opts...), model: model}, nil
}

// ChatCompletion implements Model.
func (m *OpenAIModel) ChatCompletion(ctx context.Context, messages []Message) ([]Choice, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(m.model),
	}
	for _, msg := range messages {
		p, err := convertMessage(msg)
		if err != nil {
			return nil, err
		}
		params.Messages = append(params.Messages, p)
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}

	choices := make([]Choice, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		choices = append(choices, Choice{
			Content:      c.Message.Content,
			FinishReason: c.FinishReason,
		})
	}
	return choices, nil
}

func convertMessage(m Message) (oai.ChatCompletionMessageParamUnion, error) {
	switch m.Role {
	case "system":
		return oai.SystemMessage(m.Content), nil
	case "user":
		return oai.UserMessage(m.Content), nil
	case "assistant":
		return oai.AssistantMessage(m.Content), nil
	default:
		return oai.ChatCompletionMessageParamUnion{}, fmt.Errorf("openai: unknown message role %q", m.Role)
	}
}
