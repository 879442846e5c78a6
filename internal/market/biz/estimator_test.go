package biz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadscout/leadscout-backend/internal/market/types"
	searchtypes "github.com/leadscout/leadscout-backend/internal/websearch/types"
)

func serpOf(urls ...string) []*searchtypes.SearchResult {
	serp := make([]*searchtypes.SearchResult, len(urls))
	for i, u := range urls {
		serp[i] = &searchtypes.SearchResult{
			Rank:  i + 1,
			URL:   u,
			Title: fmt.Sprintf("Result %d", i+1),
		}
	}
	return serp
}

func TestEstimateVolume(t *testing.T) {
	e := NewKeywordMetricsEstimator()

	tests := []struct {
		name        string
		keyword     string
		resultCount int
		want        int
	}{
		{"single word head term", "plumber", 5, 10000},
		{"two word term", "emergency plumber", 5, 1000},
		{"three word term", "emergency plumber repair", 5, 500},
		{"long tail near me", "emergency plumber repair near me now", 5, 30},
		{"full serp multiplier", "emergency plumber", 10, 1500},
		{"commercial multiplier", "best plumber", 5, 2000},
		{"local dampening", "plumber in denver", 5, 150},
		{"empty keyword", "", 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.estimateVolume(tt.keyword, tt.resultCount))
		})
	}
}

func TestCompetitionScore(t *testing.T) {
	e := NewKeywordMetricsEstimator()

	t.Run("empty serp scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, e.competitionScore(nil))
	})

	t.Run("authority at top raises score", func(t *testing.T) {
		serp := serpOf(
			"https://www.mayoclinic.org/symptoms",
			"https://www.localplumber.com/",
		)
		// rank 1 authority contributes (10-1)/100
		assert.InDelta(t, 0.09, e.competitionScore(serp), 1e-9)
	})

	t.Run("forum domination goes negative", func(t *testing.T) {
		serp := serpOf(
			"https://www.reddit.com/r/plumbing/comments/abc",
			"https://www.quora.com/how-to-fix-a-leak",
		)
		score := e.competitionScore(serp)
		assert.Less(t, score, 0.0)
		assert.InDelta(t, -0.17, score, 1e-9)
	})

	t.Run("only top ten results count", func(t *testing.T) {
		urls := make([]string, 12)
		for i := range urls {
			urls[i] = "https://www.localplumber.com/"
		}
		urls[11] = "https://en.wikipedia.org/wiki/Plumbing"
		assert.Equal(t, 0.0, e.competitionScore(serpOf(urls...)))
	})
}

func TestCompetitionDifficulty(t *testing.T) {
	assert.Equal(t, types.DifficultyEasy, competitionDifficulty(0.29))
	assert.Equal(t, types.DifficultyMedium, competitionDifficulty(0.3))
	assert.Equal(t, types.DifficultyMedium, competitionDifficulty(0.59))
	assert.Equal(t, types.DifficultyHard, competitionDifficulty(0.6))
	assert.Equal(t, types.DifficultyEasy, competitionDifficulty(-0.5))
}

func TestEstimateCPC(t *testing.T) {
	e := NewKeywordMetricsEstimator()

	// High-value vertical: 15 + 2 per word
	assert.Equal(t, 19.0, e.estimateCPC("plumber repair"))
	assert.Equal(t, 21.0, e.estimateCPC("dui lawyer near"))

	// Generic: 2 + 0.5 per word
	assert.Equal(t, 3.0, e.estimateCPC("cookie recipe"))
}

func TestClassifyIntent(t *testing.T) {
	e := NewKeywordMetricsEstimator()

	tests := []struct {
		keyword string
		want    types.Intent
	}{
		{"hire a plumber", types.IntentTransactional},
		{"how to fix a leak", types.IntentInformational},
		{"city water department phone number", types.IntentNavigational},
		{"best plumber denver", types.IntentCommercial},
		{"plumber denver", types.IntentMixed},
		// Transactional outranks the informational "how"
		{"how to book a plumber", types.IntentTransactional},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, e.classifyIntent(tt.keyword))
		})
	}
}

func TestDetectSERPFeatures(t *testing.T) {
	e := NewKeywordMetricsEstimator()

	serp := []*searchtypes.SearchResult{
		{URL: "https://www.youtube.com/watch?v=abc", Title: "Fixing a leak"},
		{URL: "https://www.reddit.com/r/plumbing", Title: "Leak thread"},
		{URL: "https://www.localplumber.com/", Snippet: "4.9 rating from 200 reviews"},
	}

	features := e.detectSERPFeatures(serp)

	assert.Contains(t, features, "reviews")
	assert.Contains(t, features, "video")
	assert.Contains(t, features, "discussions")

	assert.Empty(t, e.detectSERPFeatures(nil))
}

func TestOpportunityScoreBounds(t *testing.T) {
	e := NewKeywordMetricsEstimator()

	// Demand term caps at 50; zero competition gives a full ease term.
	assert.Equal(t, 100.0, e.opportunityScore(10000, 0))

	// Negative competition would push past 100 without the clamp.
	assert.Equal(t, 100.0, e.opportunityScore(10000, -0.5))

	// Heavy competition with no demand still floors at zero.
	assert.Equal(t, 0.0, e.opportunityScore(0, 2.0))

	assert.InDelta(t, 10+0.5*50, e.opportunityScore(1000, 0.5), 1e-9)
}

func TestEstimateNeverErrors(t *testing.T) {
	e := NewKeywordMetricsEstimator()

	metrics := e.Estimate("", "", nil)

	assert.NotNil(t, metrics)
	assert.Equal(t, 0, metrics.SearchVolume)
	assert.Equal(t, types.DifficultyEasy, metrics.Difficulty)
	assert.NotNil(t, metrics.SERPFeatures)
}
