package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrAborted reports that the caller cancelled the stream. Handlers use
// it to tell a client disconnect apart from a real failure.
var ErrAborted = errors.New("chat: stream aborted")

// AvailabilityStatus mirrors what the UI shows next to the chat toggle.
type AvailabilityStatus string

const (
	StatusAvailable    AvailabilityStatus = "available"
	StatusDownloadable AvailabilityStatus = "downloadable"
	StatusUnavailable  AvailabilityStatus = "unavailable"
)

// Client talks to an Ollama-compatible model server.
type Client struct {
	model      string
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

type ClientOptions struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *logrus.Logger
}

func NewClient(opts ClientOptions) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		model:      opts.Model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (c *Client) Model() string { return c.model }

// Availability probes the model server's tag list. A reachable server
// that has not pulled the configured model reports downloadable.
func (c *Client) Availability(ctx context.Context) AvailabilityStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return StatusUnavailable
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StatusUnavailable
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return StatusUnavailable
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		c.log.WithError(err).Warn("decode model tags")
		return StatusUnavailable
	}

	for _, m := range tags.Models {
		if m.Name == c.model || strings.SplitN(m.Name, ":", 2)[0] == c.model {
			return StatusAvailable
		}
	}
	return StatusDownloadable
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error"`
}

// Stream posts the conversation and feeds each content delta to
// onDelta as it arrives. It returns the full accumulated reply.
// Cancelling ctx yields ErrAborted.
func (c *Client) Stream(ctx context.Context, messages []Message, onDelta func(delta string)) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.mapErr(ctx, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat request failed: %s", strings.TrimSpace(string(msg)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var builder strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return builder.String(), fmt.Errorf("decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return builder.String(), fmt.Errorf("model error: %s", chunk.Error)
		}

		if chunk.Message.Content != "" {
			builder.WriteString(chunk.Message.Content)
			if onDelta != nil {
				onDelta(chunk.Message.Content)
			}
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return builder.String(), c.mapErr(ctx, err)
	}

	return builder.String(), nil
}

func (c *Client) mapErr(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrAborted
	}
	return err
}
