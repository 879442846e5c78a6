package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/leadscout/leadscout-backend/internal/websearch/types"
)

// BrightDataProvider searches Google through the BrightData unlocker API,
// which returns raw SERP HTML. Results are extracted with goquery.
type BrightDataProvider struct {
	*BaseProvider
}

// NewBrightDataProvider creates a new BrightData provider
func NewBrightDataProvider(config *types.ProviderConfig) (Provider, error) {
	base := NewBaseProvider(config)
	return &BrightDataProvider{BaseProvider: base}, nil
}

// Search fetches a Google SERP for the query and parses the HTML
func (p *BrightDataProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	startTime := time.Now()

	target := "https://www.google.com/search?q=" + url.QueryEscape(req.Query)
	body := strings.NewReader(fmt.Sprintf(`{"url":%q,"format":"raw"}`, target))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.config.APIHost, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
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

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(msg),
		}
	}

	results, err := parseGoogleSERP(resp.Body, req.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidResponse, err)
	}

	return &types.SearchResponse{
		Query:      req.Query,
		Results:    results,
		TotalCount: len(results),
		Took:       time.Since(startTime).Milliseconds(),
		Provider:   p.GetID(),
	}, nil
}

// parseGoogleSERP extracts organic results from Google SERP HTML.
// Google markup shifts frequently; selectors here cover the stable
// "div.g" organic container and fall back to anchor text for titles.
func parseGoogleSERP(r io.Reader, maxResults int) ([]*types.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = 10
	}

	results := make([]*types.SearchResult, 0, maxResults)
	doc.Find("div.g").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a").First()
		href, ok := link.Attr("href")
		if !ok || !strings.HasPrefix(href, "http") {
			return true
		}

		title := strings.TrimSpace(s.Find("h3").First().Text())
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}

		snippet := strings.TrimSpace(s.Find("div.VwiC3b").First().Text())
		if snippet == "" {
			snippet = strings.TrimSpace(s.Find("span.st").First().Text())
		}

		results = append(results, &types.SearchResult{
			Rank:    len(results) + 1,
			Title:   title,
			URL:     href,
			Snippet: snippet,
		})
		return len(results) < maxResults
	})

	return results, nil
}
