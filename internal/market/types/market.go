package types

import (
	"time"

	searchtypes "github.com/leadscout/leadscout-backend/internal/websearch/types"
)

// Difficulty represents how hard a keyword is to rank for
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Intent classifies the searcher's goal behind a keyword
type Intent string

const (
	IntentTransactional Intent = "transactional"
	IntentInformational Intent = "informational"
	IntentNavigational  Intent = "navigational"
	IntentCommercial    Intent = "commercial"
	IntentMixed         Intent = "mixed"
)

// Action is the build-vs-skip decision for an opportunity
type Action string

const (
	ActionBuildNow Action = "BUILD_NOW"
	ActionSkip     Action = "SKIP"
)

// Priority ranks how urgently an opportunity should be acted on
type Priority string

const (
	PriorityImmediate Priority = "IMMEDIATE"
	PriorityHigh      Priority = "HIGH"
	PriorityMedium    Priority = "MEDIUM"
	PriorityLow       Priority = "LOW"
)

// CompetitorProfile is the classification of a single SERP entry.
// Profiles are created once per aggregation pass and never mutated.
type CompetitorProfile struct {
	Rank       int      `json:"rank"`
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Snippet    string   `json:"snippet"`
	Weaknesses []string `json:"weaknesses"`
	IsWeak     bool     `json:"is_weak"`
}

// KeywordMetrics holds the estimated demand and competition profile
// for one (keyword, location) pair.
type KeywordMetrics struct {
	Keyword          string     `json:"keyword"`
	Location         string     `json:"location"`
	SearchVolume     int        `json:"search_volume"`
	CompetitionScore float64    `json:"competition_score"`
	Difficulty       Difficulty `json:"difficulty"`
	CPCEstimate      float64    `json:"cpc_estimate"`
	Intent           Intent     `json:"intent"`
	SERPFeatures     []string   `json:"serp_features"`
	OpportunityScore float64    `json:"opportunity_score"`
}

// MarketOpportunity is the terminal decision record for a (keyword, location).
type MarketOpportunity struct {
	Keyword           string     `json:"keyword"`
	Location          string     `json:"location"`
	WeakCompetitors   int        `json:"weak_competitors"`
	StrongCompetitors int        `json:"strong_competitors"`
	MonthlySearches   int        `json:"monthly_searches"`
	LeadValue         float64    `json:"lead_value"`
	MonthlyRevenue    float64    `json:"monthly_revenue"`
	DaysToRank        int        `json:"days_to_rank"`
	Difficulty        Difficulty `json:"difficulty"`
	Action            Action     `json:"action"`
	Priority          Priority   `json:"priority"`
	DomainSuggestion  string     `json:"domain_suggestion"`
}

// LiveMarketData is the full aggregated research record for one
// (keyword, location) query. A fresh record is produced per gather call;
// persistence, if any, is the caller's concern via the research cache.
type LiveMarketData struct {
	Keyword   string    `json:"keyword"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`

	// Search results
	SERPResults    []*searchtypes.SearchResult `json:"serp_results"`
	CompetitorURLs []string                    `json:"competitor_urls"`

	// Competitor analysis. Weak/strong are views over CompetitorData:
	// every profile appears in exactly one of the two partitions.
	CompetitorData    []*CompetitorProfile `json:"competitor_data"`
	WeakCompetitors   []*CompetitorProfile `json:"weak_competitors"`
	StrongCompetitors []*CompetitorProfile `json:"strong_competitors"`

	// Market insights
	MarketGaps       []string   `json:"market_gaps"`
	OpportunityScore float64    `json:"opportunity_score"`
	DifficultyLevel  Difficulty `json:"difficulty_level"`

	// Keywords & SEO
	RelatedKeywords      []string `json:"related_keywords"`
	SearchVolumeEstimate int      `json:"search_volume_estimate"`
	CommercialIntent     bool     `json:"commercial_intent"`

	// Content opportunities
	ContentGaps       []string `json:"content_gaps"`
	QuestionsToAnswer []string `json:"questions_to_answer"`

	// Technical data
	MobileFriendlyRatio float64        `json:"mobile_friendly_ratio"`
	SchemaUsage         map[string]int `json:"schema_usage"`

	// Revenue potential
	EstimatedCPC            float64 `json:"estimated_cpc"`
	LeadValue               float64 `json:"lead_value"`
	MonthlyRevenuePotential float64 `json:"monthly_revenue_potential"`
}

// NewLiveMarketData returns an empty record with all collections initialized,
// so a fully degraded gather still serializes with empty arrays rather than nulls.
func NewLiveMarketData(keyword, location string) *LiveMarketData {
	return &LiveMarketData{
		Keyword:           keyword,
		Location:          location,
		Timestamp:         time.Now(),
		SERPResults:       []*searchtypes.SearchResult{},
		CompetitorURLs:    []string{},
		CompetitorData:    []*CompetitorProfile{},
		WeakCompetitors:   []*CompetitorProfile{},
		StrongCompetitors: []*CompetitorProfile{},
		MarketGaps:        []string{},
		DifficultyLevel:   DifficultyMedium,
		RelatedKeywords:   []string{},
		CommercialIntent:  true,
		ContentGaps:       []string{},
		QuestionsToAnswer: []string{},
		SchemaUsage:       map[string]int{},
	}
}

// CompetitorIntel is the result of scraping and analyzing one competitor site.
type CompetitorIntel struct {
	URL           string   `json:"url"`
	ContentLength int      `json:"content_length"`
	Phones        []string `json:"phones"`
	Emails        []string `json:"emails"`
	ServiceAreas  []string `json:"service_areas"`
	Weaknesses    []string `json:"weaknesses"`
	ScrapedAt     string   `json:"scraped_at"`
}
