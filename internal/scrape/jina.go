package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// JinaReader fetches page text through the Jina reader endpoint
// (r.jina.ai), which returns pre-extracted article text.
type JinaReader struct {
	apiHost string
	apiKey  string
	client  *http.Client
}

// NewJinaReader creates a reader-backed scraper
func NewJinaReader(apiHost, apiKey string, timeout time.Duration) *JinaReader {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &JinaReader{
		apiHost: apiHost,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (j *JinaReader) Name() string { return "jina-reader" }

// Scrape fetches the reader view of url. With an Accept: application/json
// header the endpoint wraps the text in {"data": {"content": ...}}.
func (j *JinaReader) Scrape(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", j.apiHost+"/"+url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if j.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+j.apiKey)
	}

	resp, err := j.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reader request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reader returned HTTP %d", resp.StatusCode)
	}

	if content := gjson.GetBytes(body, "data.content"); content.Exists() {
		return content.String(), nil
	}
	// Plain-text response mode
	return string(body), nil
}
