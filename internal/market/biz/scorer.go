package biz

import (
	"math"
	"strings"

	"github.com/leadscout/leadscout-backend/internal/market/types"
	searchtypes "github.com/leadscout/leadscout-backend/internal/websearch/types"
)

// DecisionPolicy holds the build-vs-skip thresholds. They vary by market,
// so they are configuration, not code.
type DecisionPolicy struct {
	// MinMonthlyRevenue is the revenue floor for a BUILD_NOW decision, dollars
	MinMonthlyRevenue float64 `mapstructure:"min_monthly_revenue"`
	// MaxDaysToRank is the longest acceptable time to first rankings
	MaxDaysToRank int `mapstructure:"max_days_to_rank"`
	// MinWeakCompetitors gates which keywords the grid scan bothers to
	// fully research; it does not affect the BUILD_NOW decision itself
	MinWeakCompetitors int `mapstructure:"min_weak_competitors"`
}

// DefaultDecisionPolicy returns the canonical thresholds
func DefaultDecisionPolicy() DecisionPolicy {
	return DecisionPolicy{
		MinMonthlyRevenue:  1500,
		MaxDaysToRank:      30,
		MinWeakCompetitors: 3,
	}
}

// leadValues maps the leading urgency modifier of a keyword to the assumed
// dollar value of one converted call
var leadValues = []struct {
	modifier string
	value    float64
}{
	{"emergency", 200},
	{"24 hour", 175},
	{"sunday", 160},
	{"weekend", 150},
	{"saturday", 140},
	{"after hours", 130},
	{"same day", 120},
	{"urgent", 110},
}

// defaultLeadValue applies when no urgency modifier matches
const defaultLeadValue = 100

// clickThroughRate is the fixed share of monthly searches assumed to click
// through; it must not vary by keyword
const clickThroughRate = 0.10

// domainStopwords are dropped when building a domain slug
var domainStopwords = map[string]bool{
	"the": true, "in": true, "at": true, "near": true, "by": true,
}

// OpportunityScorer turns classified competitors and keyword metrics into
// the final build-vs-skip decision record.
type OpportunityScorer struct {
	policy DecisionPolicy
}

// NewOpportunityScorer creates a scorer with the given policy
func NewOpportunityScorer(policy DecisionPolicy) *OpportunityScorer {
	return &OpportunityScorer{policy: policy}
}

// Policy returns the scorer's decision policy
func (s *OpportunityScorer) Policy() DecisionPolicy {
	return s.policy
}

// Score produces a MarketOpportunity for one (keyword, location). The weak
// ratio over the SERP drives difficulty and days-to-rank; revenue is the
// fixed 10% click-through assumption times the urgency lead value.
func (s *OpportunityScorer) Score(
	keyword, location string,
	serp []*searchtypes.SearchResult,
	competitors []*types.CompetitorProfile,
	metrics *types.KeywordMetrics,
) *types.MarketOpportunity {
	var weak, strong int
	for _, c := range competitors {
		if c.IsWeak {
			weak++
		} else {
			strong++
		}
	}

	searches := 0
	if metrics != nil {
		searches = metrics.SearchVolume
	}

	leadValue := LeadValueFor(keyword)
	monthlyRevenue := math.Round(float64(searches) * clickThroughRate * leadValue)

	difficulty := weakRatioDifficulty(weak, len(serp))
	daysToRank := daysToRankFor(difficulty)

	action := types.ActionSkip
	if monthlyRevenue > s.policy.MinMonthlyRevenue && daysToRank <= s.policy.MaxDaysToRank {
		action = types.ActionBuildNow
	}

	return &types.MarketOpportunity{
		Keyword:           keyword,
		Location:          location,
		WeakCompetitors:   weak,
		StrongCompetitors: strong,
		MonthlySearches:   searches,
		LeadValue:         leadValue,
		MonthlyRevenue:    monthlyRevenue,
		DaysToRank:        daysToRank,
		Difficulty:        difficulty,
		Action:            action,
		Priority:          buildPriority(monthlyRevenue, weak, daysToRank),
		DomainSuggestion:  SuggestDomain(keyword, location),
	}
}

// LeadValueFor selects the lead value for the keyword's leading urgency
// modifier, falling back to the documented default of $100.
func LeadValueFor(keyword string) float64 {
	keywordLower := strings.ToLower(keyword)
	for _, lv := range leadValues {
		if strings.HasPrefix(keywordLower, lv.modifier) {
			return lv.value
		}
	}
	return defaultLeadValue
}

// weakRatioDifficulty applies the shared thresholds: more than half the
// SERP weak means EASY, under 30% weak means the market is defended.
func weakRatioDifficulty(weak, total int) types.Difficulty {
	if total == 0 {
		return types.DifficultyHard
	}
	ratio := float64(weak) / float64(total)
	switch {
	case ratio > 0.5:
		return types.DifficultyEasy
	case ratio > 0.3:
		return types.DifficultyMedium
	default:
		return types.DifficultyHard
	}
}

func daysToRankFor(difficulty types.Difficulty) int {
	switch difficulty {
	case types.DifficultyEasy:
		return 14
	case types.DifficultyMedium:
		return 30
	default:
		return 60
	}
}

// buildPriority ranks opportunities for the build queue
func buildPriority(monthlyRevenue float64, weakCompetitors, daysToRank int) types.Priority {
	switch {
	case monthlyRevenue > 3000 && weakCompetitors >= 3 && daysToRank <= 14:
		return types.PriorityImmediate
	case monthlyRevenue > 2000 && weakCompetitors >= 2:
		return types.PriorityHigh
	case monthlyRevenue > 1000:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

// SuggestDomain builds a deterministic domain slug from the keyword and
// the location's city token: stopwords dropped, tokens hyphen-joined,
// repeated hyphens collapsed, ".com" suffixed.
func SuggestDomain(keyword, location string) string {
	city := strings.ToLower(location)
	if idx := strings.Index(city, ","); idx >= 0 {
		city = city[:idx]
	}
	city = strings.Join(strings.Fields(city), "-")

	tokens := make([]string, 0, 4)
	for _, word := range strings.Fields(strings.ToLower(keyword)) {
		if domainStopwords[word] {
			continue
		}
		tokens = append(tokens, word)
		if len(tokens) == 3 {
			break
		}
	}
	if city != "" {
		tokens = append(tokens, city)
	}

	slug := strings.Join(tokens, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	return slug + ".com"
}
