package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
server:
  host: 127.0.0.1
  port: 9090

search:
  primary: jina
  fallbacks:
    - searxng
  providers:
    jina:
      id: jina
      name: Jina AI Search
      api_host: https://s.jina.ai
      api_key: ${LEADSCOUT_TEST_KEY}
    searxng:
      id: searxng
      name: SearXNG
      api_host: http://localhost:8888

cache:
  ttl: 30m

policy:
  min_monthly_revenue: 2000
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LEADSCOUT_TEST_KEY", "secret-key")

	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, "jina", cfg.Search.Primary)
	assert.Equal(t, []string{"searxng"}, cfg.Search.Fallbacks)

	// ${VAR} references resolve against the environment
	assert.Equal(t, "secret-key", cfg.Search.Providers["jina"].APIKey)

	// Explicit values override defaults, untouched keys keep them
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 2000, cfg.Policy.MinMonthlyRevenue)
	assert.Equal(t, 30, cfg.Policy.MaxDaysToRank)
	assert.Equal(t, 5, cfg.Scan.Workers)
	assert.Equal(t, "leadscout:research", cfg.Cache.Prefix)
}

func TestLoadConfigUnknownPrimary(t *testing.T) {
	bad := `
search:
  primary: google
  providers:
    jina:
      id: jina
      name: Jina
      api_host: https://s.jina.ai
      api_key: k
`
	_, err := LoadConfig(writeConfig(t, bad))
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
