package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/leadscout/leadscout-backend/internal/websearch/types"
)

// JinaProvider implements search via the Jina s.jina.ai endpoint
type JinaProvider struct {
	*BaseProvider
}

// NewJinaProvider creates a new Jina provider
func NewJinaProvider(config *types.ProviderConfig) (Provider, error) {
	base := NewBaseProvider(config)
	return &JinaProvider{BaseProvider: base}, nil
}

// Search executes a search query using the Jina search API.
// The endpoint returns either {"data": [...]} or {"results": [...]}
// depending on response mode, so the payload is parsed loosely.
func (p *JinaProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	startTime := time.Now()

	apiURL := fmt.Sprintf("%s/%s", p.config.APIHost, url.PathEscape(req.Query))
	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Accept", "application/json")
	if key := p.GetAPIKey(); key != "" {
		httpReq.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	entries := gjson.GetBytes(body, "data")
	if !entries.Exists() {
		entries = gjson.GetBytes(body, "results")
	}
	if !entries.IsArray() {
		return nil, fmt.Errorf("%w: missing result array", types.ErrInvalidResponse)
	}

	results := make([]*types.SearchResult, 0, len(entries.Array()))
	for i, entry := range entries.Array() {
		if req.MaxResults > 0 && i >= req.MaxResults {
			break
		}
		results = append(results, &types.SearchResult{
			Rank:    i + 1,
			Title:   entry.Get("title").String(),
			URL:     entry.Get("url").String(),
			Snippet: entry.Get("description").String(),
			Content: entry.Get("content").String(),
		})
	}

	return &types.SearchResponse{
		Query:      req.Query,
		Results:    results,
		TotalCount: len(results),
		Took:       time.Since(startTime).Milliseconds(),
		Provider:   p.GetID(),
	}, nil
}
