package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout/leadscout-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "console"})
	require.NoError(t, err)
	return log
}

type fixedScraper struct {
	name    string
	content string
	err     error
	calls   int
}

func (f *fixedScraper) Scrape(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.content, f.err
}

func (f *fixedScraper) Name() string { return f.name }

func TestManagerFirstBackendWins(t *testing.T) {
	first := &fixedScraper{name: "first", content: "page text"}
	second := &fixedScraper{name: "second", content: "unused"}
	m := NewManager(testLogger(t), first, second)

	text := m.Scrape(context.Background(), "https://example.com/")

	assert.Equal(t, "page text", text)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestManagerFallsThroughChain(t *testing.T) {
	first := &fixedScraper{name: "first", err: errors.New("blocked")}
	second := &fixedScraper{name: "second", content: ""}
	third := &fixedScraper{name: "third", content: "rendered text"}
	m := NewManager(testLogger(t), first, second, third)

	text := m.Scrape(context.Background(), "https://example.com/")

	assert.Equal(t, "rendered text", text)

	requests, failures := m.Stats().Snapshot()
	assert.Equal(t, int64(1), requests["first"])
	assert.Equal(t, int64(1), failures["first"])
	assert.Equal(t, int64(1), failures["second"])
	assert.Equal(t, int64(0), failures["third"])
}

func TestManagerAllBackendsFail(t *testing.T) {
	m := NewManager(testLogger(t),
		&fixedScraper{name: "first", err: errors.New("timeout")},
		&fixedScraper{name: "second", err: errors.New("timeout")},
	)

	assert.Equal(t, "", m.Scrape(context.Background(), "https://example.com/"))
}

func TestHTTPFetcherExtractsBodyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`<html><head><style>body{color:red}</style></head>
<body><script>var x = 1;</script><h1>Smith Plumbing</h1><p>Emergency   repairs in Denver.</p></body></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(0)
	text, err := f.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Smith Plumbing")
	assert.Contains(t, text, "Emergency repairs in Denver.")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "color:red")
}

func TestHTTPFetcherNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(0)
	_, err := f.Scrape(context.Background(), srv.URL)

	assert.Error(t, err)
}

func TestJinaReaderParsesJSONContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"content":"extracted page text"}}`))
	}))
	defer srv.Close()

	j := NewJinaReader(srv.URL, "test-key", 0)
	text, err := j.Scrape(context.Background(), "https://example.com/")
	require.NoError(t, err)

	assert.Equal(t, "extracted page text", text)
}

func TestJinaReaderPlainTextFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain markdown body"))
	}))
	defer srv.Close()

	j := NewJinaReader(srv.URL, "", 0)
	text, err := j.Scrape(context.Background(), "https://example.com/")
	require.NoError(t, err)

	assert.Equal(t, "plain markdown body", text)
}
