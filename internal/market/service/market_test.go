package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout-backend/internal/market/biz"
	"github.com/leadscout/leadscout-backend/internal/pkg/logger"
	"github.com/leadscout/leadscout-backend/internal/pkg/workerpool"
	"github.com/leadscout/leadscout-backend/internal/scrape"
	searchtypes "github.com/leadscout/leadscout-backend/internal/websearch/types"
)

type cannedProvider struct {
	results []*searchtypes.SearchResult
}

func (p *cannedProvider) Search(ctx context.Context, req *searchtypes.SearchRequest) (*searchtypes.SearchResponse, error) {
	return &searchtypes.SearchResponse{
		Query:    req.Query,
		Results:  p.results,
		Provider: searchtypes.ProviderJina,
	}, nil
}

func (p *cannedProvider) GetID() searchtypes.ProviderID { return searchtypes.ProviderJina }
func (p *cannedProvider) GetName() string               { return "canned" }
func (p *cannedProvider) Validate() error               { return nil }

type cannedScraper struct{ content string }

func (s *cannedScraper) Scrape(ctx context.Context, url string) (string, error) {
	return s.content, nil
}
func (s *cannedScraper) Name() string { return "canned" }

func newTestRouter(t *testing.T, scrapeContent string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "console"})
	require.NoError(t, err)

	provider := &cannedProvider{results: []*searchtypes.SearchResult{
		{Rank: 1, URL: "https://www.yelp.com/biz/plumber", Title: "Best Plumbers", Snippet: "reviews"},
		{Rank: 2, URL: "https://www.yellowpages.com/plumbers", Title: "Plumber Listings", Snippet: "directory"},
		{Rank: 3, URL: "https://www.thumbtack.com/plumbing", Title: "Hire a Pro", Snippet: "pros"},
	}}

	pool, err := workerpool.New(&workerpool.Config{Workers: 2}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	coordinator := biz.NewDataCoordinator(provider, nil, nil, log)
	scorer := biz.NewOpportunityScorer(biz.DefaultDecisionPolicy())
	scanner := biz.NewOpportunityScanner(coordinator, scorer, pool, 0, log)
	analyzer := biz.NewCompetitorAnalyzer(
		scrape.NewManager(log, &cannedScraper{content: scrapeContent}), log)

	svc := NewMarketService(coordinator, scanner, analyzer, log)

	router := gin.New()
	svc.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestResearchEndpoint(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, "/api/v1/market/research", ResearchRequest{
		Keyword: "emergency plumber", Location: "Denver",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Keyword          string  `json:"keyword"`
			OpportunityScore float64 `json:"opportunity_score"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "emergency plumber", resp.Data.Keyword)
	assert.Greater(t, resp.Data.OpportunityScore, 0.0)
}

func TestResearchEndpointRequiresKeyword(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, "/api/v1/market/research", map[string]string{"location": "Denver"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFormatEndpoint(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, "/api/v1/market/research/format", FormatRequest{
		Keyword: "emergency plumber", Location: "Denver", Agent: biz.AgentMarketScanner,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data, "competitors")
	assert.Contains(t, resp.Data, "market_gaps")
	assert.NotContains(t, resp.Data, "market_data")
}

func TestScanEndpoint(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, "/api/v1/market/scan", ScanRequest{
		Location:  "Denver",
		Services:  []string{"plumber"},
		Modifiers: []string{"emergency"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			JobID   string `json:"job_id"`
			Scanned int    `json:"scanned"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.JobID)
	assert.Equal(t, 1, resp.Data.Scanned)
}

func TestAnalyzeCompetitorEndpoint(t *testing.T) {
	router := newTestRouter(t, "Call (303) 555-1234 for emergency plumbing in Denver.")

	w := doJSON(t, router, "/api/v1/market/competitors/analyze", AnalyzeCompetitorRequest{
		URL: "https://www.example.com/",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Phones []string `json:"phones"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.Phones, "(303) 555-1234")
}

func TestAnalyzeCompetitorUnreachable(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, "/api/v1/market/competitors/analyze", AnalyzeCompetitorRequest{
		URL: "https://www.example.com/",
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
