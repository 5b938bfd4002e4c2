// Package hub publishes exported datasets to a Hugging Face compatible
// dataset registry.
package hub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/homerbot/internal/dataset"
)

// DefaultEndpoint is the public Hugging Face Hub.
const DefaultEndpoint = "https://huggingface.co"

// DataPath is where the records land inside the dataset repository.
const DataPath = "data/train.jsonl"

// ErrUnauthorized is returned when the token is missing or rejected.
var ErrUnauthorized = errors.New("registry rejected credentials")

type Client struct {
	endpoint string
	token    string
	client   *http.Client
}

func NewClient(endpoint, token string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

type createRepoRequest struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
}

type commitLine struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type commitHeader struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

type commitFile struct {
	Content  string `json:"content"`
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
}

// Publish creates the dataset repository if needed and commits records to
// DataPath on the main branch. repoID has the form "<owner>/<name>".
func (c *Client) Publish(ctx context.Context, repoID string, records []dataset.Record) error {
	if c.token == "" {
		return fmt.Errorf("publish %s: %w: no token", repoID, ErrUnauthorized)
	}
	owner, name, ok := strings.Cut(repoID, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid dataset id %q: want <owner>/<name>", repoID)
	}
	if len(records) == 0 {
		return dataset.ErrNoData
	}

	if err := c.createRepo(ctx, owner, name); err != nil {
		return fmt.Errorf("create repo: %w", err)
	}

	payload, err := dataset.EncodeJSONL(records)
	if err != nil {
		return err
	}
	if err := c.commit(ctx, repoID, payload, len(records)); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (c *Client) createRepo(ctx context.Context, owner, name string) error {
	body, err := json.Marshal(createRepoRequest{
		Type:         "dataset",
		Name:         name,
		Organization: owner,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	status, respBody, err := c.post(ctx, c.endpoint+"/api/repos/create", "application/json", body)
	if err != nil {
		return err
	}
	// 409 means the repository already exists.
	if status == http.StatusConflict {
		return nil
	}
	return checkStatus(status, respBody)
}

func (c *Client) commit(ctx context.Context, repoID string, payload []byte, n int) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	lines := []commitLine{
		{Key: "header", Value: commitHeader{
			Summary: fmt.Sprintf("Upload %d conversations", n),
		}},
		{Key: "file", Value: commitFile{
			Content:  base64.StdEncoding.EncodeToString(payload),
			Path:     DataPath,
			Encoding: "base64",
		}},
	}
	for _, l := range lines {
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("marshal commit: %w", err)
		}
	}

	url := fmt.Sprintf("%s/api/datasets/%s/commit/main", c.endpoint, repoID)
	status, respBody, err := c.post(ctx, url, "application/x-ndjson", buf.Bytes())
	if err != nil {
		return err
	}
	return checkStatus(status, respBody)
}

func (c *Client) post(ctx context.Context, url, contentType string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func checkStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", ErrUnauthorized, status, errorMessage(body))
	default:
		return fmt.Errorf("api error %d: %s", status, errorMessage(body))
	}
}

func errorMessage(body []byte) string {
	var resp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &resp) == nil && resp.Error != "" {
		return resp.Error
	}
	return string(body)
}
