package biz

import (
	"strings"

	"github.com/leadscout/leadscout-backend/internal/market/types"
	searchtypes "github.com/leadscout/leadscout-backend/internal/websearch/types"
)

// Weakness tags attached to classified competitors
const (
	WeaknessDirectory    = "Directory listing, not dedicated site"
	WeaknessPoorTitle    = "Poor title optimization"
	WeaknessKeywordMatch = "Weak keyword relevance"
	WeaknessThinContent  = "Thin content"
)

// directoryDomains are low-quality listing sites that outrank easily
var directoryDomains = []string{
	"yelp.com", "yellowpages.com", "facebook.com", "nextdoor.com",
	"angi.com", "thumbtack.com", "manta.com", "citysearch.com",
}

const (
	thinContentThreshold = 500
	shortTitleThreshold  = 35
)

// CompetitorClassifier labels SERP entries as weak or strong competitors.
// Classification is a pure function of the result and keyword; malformed
// results (missing fields) degrade to empty strings and still classify.
type CompetitorClassifier struct{}

// NewCompetitorClassifier creates a classifier
func NewCompetitorClassifier() *CompetitorClassifier {
	return &CompetitorClassifier{}
}

// Classify derives a CompetitorProfile from one SERP entry. A result is
// weak when it sits on a directory domain, carries thin content, or shows
// poor title/keyword optimization; anything without a weakness signal is
// strong. The bias is optimistic: one weakness is enough to count a
// competitor as beatable.
func (c *CompetitorClassifier) Classify(result *searchtypes.SearchResult, keyword string) *types.CompetitorProfile {
	if result == nil {
		result = &searchtypes.SearchResult{}
	}

	urlLower := strings.ToLower(result.URL)
	titleLower := strings.ToLower(result.Title)
	keywordLower := strings.ToLower(keyword)
	text := result.Text()

	profile := &types.CompetitorProfile{
		Rank:       result.Rank,
		URL:        result.URL,
		Title:      result.Title,
		Snippet:    result.Snippet,
		Weaknesses: []string{},
	}

	if isDirectoryURL(urlLower) {
		profile.Weaknesses = append(profile.Weaknesses, WeaknessDirectory)
	} else {
		if len(result.Title) < shortTitleThreshold && !strings.Contains(titleLower, keywordLower) {
			profile.Weaknesses = append(profile.Weaknesses, WeaknessPoorTitle)
		}
		if keywordLower != "" && !strings.Contains(strings.ToLower(text), keywordLower) {
			profile.Weaknesses = append(profile.Weaknesses, WeaknessKeywordMatch)
		}
		if len(text) < thinContentThreshold {
			profile.Weaknesses = append(profile.Weaknesses, WeaknessThinContent)
		}
	}

	profile.IsWeak = len(profile.Weaknesses) > 0
	return profile
}

func isDirectoryURL(url string) bool {
	for _, domain := range directoryDomains {
		if strings.Contains(url, domain) {
			return true
		}
	}
	return false
}
