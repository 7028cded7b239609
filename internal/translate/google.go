package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// GoogleTranslator calls the public translate endpoint one line at a time.
type GoogleTranslator struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func NewGoogleTranslator(endpoint string, timeout time.Duration, logger *slog.Logger) *GoogleTranslator {
	if endpoint == "" {
		endpoint = "https://translate.googleapis.com/translate_a/single"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GoogleTranslator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// TranslateLine translates a single line. Any transport or shape problem is
// returned as an error; the structured translator decides what to do with it.
func (g *GoogleTranslator) TranslateLine(ctx context.Context, line, targetLang string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", targetLang)
	q.Set("dt", "t")
	q.Set("q", line)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			g.logger.Warn("translate.body_close_error", "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("translate status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}

	out, err := decodeTranslation(raw)
	if err != nil {
		return "", err
	}

	g.logger.Debug("translate.line.ok",
		"target", targetLang,
		"in_len", len(line),
		"out_len", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// decodeTranslation unpacks the gtx response: a nested array whose first
// element holds [translated, original, ...] segments.
func decodeTranslation(raw []byte) (string, error) {
	var root []json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}
	if len(root) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(root[0], &segments); err != nil {
		return "", fmt.Errorf("decode segments: %w", err)
	}

	var out string
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		out += piece
	}
	if out == "" {
		return "", fmt.Errorf("no translation in response")
	}
	return out, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
