package biz

import (
	"strings"

	"github.com/leadscout/leadscout-backend/internal/market/types"
	searchtypes "github.com/leadscout/leadscout-backend/internal/websearch/types"
)

// Heuristic vocabularies. These are deliberate placeholders for real
// keyword-tool data; the shapes (inputs -> outputs) are what matter.
var (
	commercialTerms = []string{"buy", "price", "cost", "cheap", "best"}

	authorityDomains = []string{
		".gov", ".edu", "wikipedia.org", "webmd.com", "mayoclinic.org", "healthline.com",
	}
	forumDomains = []string{
		"reddit.com", "quora.com", "stackexchange.com", "answers.yahoo.com", "/forum",
	}

	highValueVerticals = []string{
		"lawyer", "attorney", "legal",
		"doctor", "dentist", "medical",
		"plumber", "electrician", "hvac", "roofing", "locksmith",
	}

	transactionalTerms = []string{"buy", "order", "purchase", "hire", "book", "quote"}
	informationalTerms = []string{"how", "what", "why", "when", "guide", "tips", "diy"}
	navigationalTerms  = []string{"login", "website", "official", "phone number"}
)

// KeywordMetricsEstimator derives demand and competition estimates for a
// keyword from its SERP. All outputs are deterministic functions of the
// keyword shape and result set.
type KeywordMetricsEstimator struct{}

// NewKeywordMetricsEstimator creates an estimator
func NewKeywordMetricsEstimator() *KeywordMetricsEstimator {
	return &KeywordMetricsEstimator{}
}

// Estimate computes KeywordMetrics for one (keyword, location) pair.
// Missing keyword or an empty SERP produce low/zero estimates, never an error.
func (e *KeywordMetricsEstimator) Estimate(keyword, location string, serp []*searchtypes.SearchResult) *types.KeywordMetrics {
	keywordLower := strings.ToLower(keyword)

	volume := e.estimateVolume(keywordLower, len(serp))
	competition := e.competitionScore(serp)
	difficulty := competitionDifficulty(competition)

	return &types.KeywordMetrics{
		Keyword:          keyword,
		Location:         location,
		SearchVolume:     volume,
		CompetitionScore: competition,
		Difficulty:       difficulty,
		CPCEstimate:      e.estimateCPC(keywordLower),
		Intent:           e.classifyIntent(keywordLower),
		SERPFeatures:     e.detectSERPFeatures(serp),
		OpportunityScore: e.opportunityScore(volume, competition),
	}
}

// estimateVolume maps keyword shape to a monthly-search guess: short heads
// get big numbers, long tails small ones, with commercial and local
// modifiers scaling the base.
func (e *KeywordMetricsEstimator) estimateVolume(keywordLower string, resultCount int) int {
	words := strings.Fields(keywordLower)

	var base float64
	switch len(words) {
	case 0:
		return 0
	case 1:
		base = 10000
	case 2:
		base = 1000
	case 3:
		base = 500
	default:
		base = 100
	}

	if resultCount >= 10 {
		base *= 1.5
	}
	if containsAny(keywordLower, commercialTerms) {
		base *= 2
	}
	if containsLocalIntent(keywordLower) {
		base *= 0.3
	}

	return int(base)
}

// competitionScore is a position-weighted signal over the top 10 results:
// authority domains push the score up, forum and Q&A domains pull it down.
// The score can go negative when forums dominate the SERP.
func (e *KeywordMetricsEstimator) competitionScore(serp []*searchtypes.SearchResult) float64 {
	var strong, weak float64

	for i, result := range serp {
		if i >= 10 {
			break
		}
		rank := i + 1
		urlLower := strings.ToLower(result.URL)
		positionWeight := float64(10 - rank)

		if containsAny(urlLower, authorityDomains) {
			strong += positionWeight
		}
		if containsAny(urlLower, forumDomains) {
			weak += positionWeight
		}
	}

	return (strong - weak) / 100
}

func competitionDifficulty(score float64) types.Difficulty {
	switch {
	case score < 0.3:
		return types.DifficultyEasy
	case score < 0.6:
		return types.DifficultyMedium
	default:
		return types.DifficultyHard
	}
}

// estimateCPC prices high-value service verticals well above the generic floor
func (e *KeywordMetricsEstimator) estimateCPC(keywordLower string) float64 {
	wordCount := float64(len(strings.Fields(keywordLower)))
	if containsAny(keywordLower, highValueVerticals) {
		return 15 + 2*wordCount
	}
	return 2 + 0.5*wordCount
}

// classifyIntent runs an ordered first-match-wins pattern check. Order
// matters: overlap terms like "best" are commercial only when nothing
// higher-priority matched.
func (e *KeywordMetricsEstimator) classifyIntent(keywordLower string) types.Intent {
	switch {
	case containsAny(keywordLower, transactionalTerms):
		return types.IntentTransactional
	case containsAny(keywordLower, informationalTerms):
		return types.IntentInformational
	case containsAny(keywordLower, navigationalTerms):
		return types.IntentNavigational
	case containsAny(keywordLower, commercialTerms):
		return types.IntentCommercial
	default:
		return types.IntentMixed
	}
}

// detectSERPFeatures tags coarse SERP composition signals
func (e *KeywordMetricsEstimator) detectSERPFeatures(serp []*searchtypes.SearchResult) []string {
	features := []string{}
	var hasReviews, hasVideo, hasForum bool

	for _, result := range serp {
		urlLower := strings.ToLower(result.URL)
		textLower := strings.ToLower(result.Text())

		if strings.Contains(textLower, "rating") || strings.Contains(textLower, "review") {
			hasReviews = true
		}
		if strings.Contains(urlLower, "youtube.com") {
			hasVideo = true
		}
		if containsAny(urlLower, forumDomains) {
			hasForum = true
		}
	}

	if hasReviews {
		features = append(features, "reviews")
	}
	if hasVideo {
		features = append(features, "video")
	}
	if hasForum {
		features = append(features, "discussions")
	}
	return features
}

// opportunityScore sums a demand term (volume, capped at 50) and an ease
// term (inverse competition, capped at 50). A negative competition score
// would inflate the ease term past 50, so the total is clamped to keep
// the 0-100 bound.
func (e *KeywordMetricsEstimator) opportunityScore(volume int, competition float64) float64 {
	demand := float64(volume) / 100
	if demand > 50 {
		demand = 50
	}

	ease := (1 - competition) * 50
	score := demand + ease

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// containsLocalIntent detects "near me" plus the bare prepositions used in
// local queries; the prepositions are matched as whole words.
func containsLocalIntent(keywordLower string) bool {
	if strings.Contains(keywordLower, "near me") {
		return true
	}
	for _, word := range strings.Fields(keywordLower) {
		if word == "in" || word == "at" {
			return true
		}
	}
	return false
}
