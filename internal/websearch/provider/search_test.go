package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout/leadscout-backend/internal/websearch/types"
)

func TestJinaSearchParsesDataArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"data":[
			{"title":"Denver Plumbing Pros","url":"https://a.com","description":"24/7 plumbing","content":"full text"},
			{"title":"Joe's Pipes","url":"https://b.com","description":"pipe repair"}
		]}`))
	}))
	defer srv.Close()

	p, err := NewJinaProvider(&types.ProviderConfig{
		ID: types.ProviderJina, Name: "Jina", APIHost: srv.URL, APIKey: "test-key",
	})
	require.NoError(t, err)

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "emergency plumber denver"})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, 1, resp.Results[0].Rank)
	assert.Equal(t, "Denver Plumbing Pros", resp.Results[0].Title)
	assert.Equal(t, "https://a.com", resp.Results[0].URL)
	assert.Equal(t, "24/7 plumbing", resp.Results[0].Snippet)
	assert.Equal(t, "full text", resp.Results[0].Content)
	assert.Equal(t, 2, resp.Results[1].Rank)
	assert.Equal(t, types.ProviderJina, resp.Provider)
}

func TestJinaSearchResultsArrayFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"title":"A","url":"https://a.com"}]}`))
	}))
	defer srv.Close()

	p, _ := NewJinaProvider(&types.ProviderConfig{
		ID: types.ProviderJina, Name: "Jina", APIHost: srv.URL, APIKey: "k",
	})

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "plumber"})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestJinaSearchRespectsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"title":"A","url":"https://a.com"},
			{"title":"B","url":"https://b.com"},
			{"title":"C","url":"https://c.com"}
		]}`))
	}))
	defer srv.Close()

	p, _ := NewJinaProvider(&types.ProviderConfig{
		ID: types.ProviderJina, Name: "Jina", APIHost: srv.URL, APIKey: "k",
	})

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "plumber", MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
}

func TestJinaSearchInvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	p, _ := NewJinaProvider(&types.ProviderConfig{
		ID: types.ProviderJina, Name: "Jina", APIHost: srv.URL, APIKey: "k",
	})

	_, err := p.Search(context.Background(), &types.SearchRequest{Query: "plumber"})
	assert.ErrorIs(t, err, types.ErrInvalidResponse)
}

func TestJinaSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	p, _ := NewJinaProvider(&types.ProviderConfig{
		ID: types.ProviderJina, Name: "Jina", APIHost: srv.URL, APIKey: "k",
	})

	_, err := p.Search(context.Background(), &types.SearchRequest{Query: "plumber"})
	require.Error(t, err)

	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "HTTP_429", provErr.Code)
}

func TestSearXNGSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "emergency plumber", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "searx", user)
		assert.Equal(t, "secret", pass)

		w.Write([]byte(`{"query":"emergency plumber","results":[
			{"title":"Plumbing Pros","url":"https://a.com","content":"emergency service"}
		]}`))
	}))
	defer srv.Close()

	p, err := NewSearXNGProvider(&types.ProviderConfig{
		ID:                types.ProviderSearXNG,
		Name:              "SearXNG",
		APIHost:           srv.URL,
		BasicAuthUsername: "searx",
		BasicAuthPassword: "secret",
	})
	require.NoError(t, err)

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "emergency plumber"})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Results[0].Rank)
	assert.Equal(t, "emergency service", resp.Results[0].Snippet)
}

func TestParseGoogleSERP(t *testing.T) {
	html := `<html><body>
		<div class="g">
			<a href="https://www.denverplumbing.com/"><h3>Denver Plumbing Pros</h3></a>
			<div class="VwiC3b">Emergency plumbing around the clock.</div>
		</div>
		<div class="g">
			<a href="/relative/link"><h3>Skipped</h3></a>
		</div>
		<div class="g">
			<a href="https://www.joespipes.com/">Joe's Pipes</a>
			<span class="st">Pipe repair specialists.</span>
		</div>
	</body></html>`

	results, err := parseGoogleSERP(strings.NewReader(html), 10)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Denver Plumbing Pros", results[0].Title)
	assert.Equal(t, "https://www.denverplumbing.com/", results[0].URL)
	assert.Equal(t, "Emergency plumbing around the clock.", results[0].Snippet)

	// Anchor text title and span.st snippet fallbacks
	assert.Equal(t, "Joe's Pipes", results[1].Title)
	assert.Equal(t, "Pipe repair specialists.", results[1].Snippet)
	assert.Equal(t, 2, results[1].Rank)
}

func TestParseGoogleSERPMaxResults(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 5; i++ {
		b.WriteString(`<div class="g"><a href="https://example.com/"><h3>T</h3></a></div>`)
	}
	b.WriteString("</body></html>")

	results, err := parseGoogleSERP(strings.NewReader(b.String()), 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}
