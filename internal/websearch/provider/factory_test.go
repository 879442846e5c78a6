package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout/leadscout-backend/internal/websearch/types"
)

func TestFactoryCreatesBuiltinProviders(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		name   string
		config *types.ProviderConfig
	}{
		{
			name: "jina",
			config: &types.ProviderConfig{
				ID:      types.ProviderJina,
				Name:    "Jina AI Search",
				APIHost: "https://s.jina.ai",
				APIKey:  "test-key",
			},
		},
		{
			name: "searxng without api key",
			config: &types.ProviderConfig{
				ID:      types.ProviderSearXNG,
				Name:    "SearXNG",
				APIHost: "http://localhost:8888",
			},
		},
		{
			name: "brightdata",
			config: &types.ProviderConfig{
				ID:      types.ProviderBrightData,
				Name:    "Bright Data SERP",
				APIHost: "https://api.brightdata.com/request",
				APIKey:  "test-key",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := factory.Create(tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.config.ID, p.GetID())
			assert.Equal(t, tt.config.Name, p.GetName())
		})
	}
}

func TestFactoryRejectsInvalidConfig(t *testing.T) {
	factory := NewFactory()

	_, err := factory.Create(&types.ProviderConfig{ID: types.ProviderJina})
	assert.Error(t, err)

	// Jina requires an API key
	_, err = factory.Create(&types.ProviderConfig{
		ID:      types.ProviderJina,
		Name:    "Jina",
		APIHost: "https://s.jina.ai",
	})
	assert.ErrorIs(t, err, types.ErrMissingAPIKey)
}

func TestFactoryUnknownProvider(t *testing.T) {
	factory := NewFactory()

	_, err := factory.Create(&types.ProviderConfig{
		ID:      "duckduckgo",
		Name:    "DuckDuckGo",
		APIHost: "https://duckduckgo.com",
		APIKey:  "k",
	})
	assert.ErrorIs(t, err, types.ErrProviderNotFound)
}

func TestFactoryListProviders(t *testing.T) {
	factory := NewFactory()

	ids := factory.ListProviders()
	assert.ElementsMatch(t, []types.ProviderID{
		types.ProviderJina, types.ProviderSearXNG, types.ProviderBrightData,
	}, ids)
}

func TestAPIKeyRotation(t *testing.T) {
	base := NewBaseProvider(&types.ProviderConfig{
		ID:      types.ProviderJina,
		Name:    "Jina",
		APIHost: "https://s.jina.ai",
		APIKey:  "key-a, key-b",
	})

	assert.Equal(t, "key-a", base.GetAPIKey())
	assert.Equal(t, "key-b", base.GetAPIKey())
	assert.Equal(t, "key-a", base.GetAPIKey())
}
