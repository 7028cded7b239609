package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/medscan-ai/medscan/internal/llm"
)

// Config for the Ollama generate client. Endpoint and model identify one
// fixed service and are established once at startup.
type Config struct {
	Endpoint    string        // default http://localhost:11434/api/generate
	Model       string        // default "deepseek-r1:14b"
	Temperature float32
	NumPredict  int           // generation-length cap
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:11434/api/generate"
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek-r1:14b"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if cfg.NumPredict <= 0 {
		cfg.NumPredict = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response *string `json:"response"`
}

// Complete implements llm.Completer against the non-streaming generate API.
// Failures come back as *llm.ModelError; there are no retries.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.complete.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"prompt_len", len(prompt),
	)

	body, err := json.Marshal(generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.cfg.Temperature,
			NumPredict:  c.cfg.NumPredict,
		},
	})
	if err != nil {
		return "", c.fail(rid, start, llm.UnexpectedFailure, err.Error(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", c.fail(rid, start, llm.UnexpectedFailure, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if connectionRefused(err) {
			return "", c.fail(rid, start, llm.ConnectionRefused, c.refusedMessage(), err)
		}
		return "", c.fail(rid, start, llm.RequestFailed, err.Error(), err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("llm.complete.body_close_error", "req_id", rid, "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(rid, start, llm.RequestFailed, err.Error(), err)
	}
	if resp.StatusCode/100 != 2 {
		err := fmt.Errorf("ollama status %d: %s", resp.StatusCode, truncate(string(raw), 2<<10))
		return "", c.fail(rid, start, llm.RequestFailed, err.Error(), err)
	}

	var envelope generateResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", c.fail(rid, start, llm.UnexpectedFailure, err.Error(), err)
	}

	text := llm.NoAnalysisGenerated
	if envelope.Response != nil && *envelope.Response != "" {
		text = *envelope.Response
	}

	c.log.Info("llm.complete.ok",
		"req_id", rid,
		"response_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (c *Client) refusedMessage() string {
	return fmt.Sprintf(
		"Error: Cannot connect to Ollama. Please make sure Ollama is running locally with %s model (ollama run %s)",
		c.cfg.Model, c.cfg.Model,
	)
}

func (c *Client) fail(rid string, start time.Time, kind llm.ErrorKind, message string, cause error) error {
	c.log.Error("llm.complete.failed",
		"req_id", rid,
		"kind", string(kind),
		"error", cause,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &llm.ModelError{Kind: kind, Message: message, Cause: cause}
}

func connectionRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
