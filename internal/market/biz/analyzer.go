package biz

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadscout/leadscout-backend/internal/market/types"
	"github.com/leadscout/leadscout-backend/internal/pkg/logger"
	"github.com/leadscout/leadscout-backend/internal/scrape"
)

// ErrScrapeEmpty is returned when no backend could extract text for a URL
var ErrScrapeEmpty = errors.New("could not scrape site")

var (
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	areaPattern  = regexp.MustCompile(`(?i:serving|we serve|service areas?):?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
)

const (
	maxExtractedContacts = 3
	maxServiceAreas      = 10
)

// CompetitorAnalyzer scrapes a competitor site and extracts contact
// details plus exploitable weaknesses from the page text.
type CompetitorAnalyzer struct {
	scraper *scrape.Manager
	log     *logger.Logger
}

// NewCompetitorAnalyzer creates an analyzer over the given scrape chain
func NewCompetitorAnalyzer(scraper *scrape.Manager, log *logger.Logger) *CompetitorAnalyzer {
	return &CompetitorAnalyzer{scraper: scraper, log: log}
}

// Analyze scrapes url and builds a CompetitorIntel record. The only
// failure mode is an empty scrape; extraction itself never fails.
func (a *CompetitorAnalyzer) Analyze(ctx context.Context, url string) (*types.CompetitorIntel, error) {
	content := a.scraper.Scrape(ctx, url)
	if content == "" {
		a.log.Warn("competitor scrape returned no content", zap.String("url", url))
		return nil, ErrScrapeEmpty
	}

	return &types.CompetitorIntel{
		URL:           url,
		ContentLength: len(content),
		Phones:        dedupe(phonePattern.FindAllString(content, -1), maxExtractedContacts),
		Emails:        dedupe(emailPattern.FindAllString(content, -1), maxExtractedContacts),
		ServiceAreas:  extractServiceAreas(content),
		Weaknesses:    identifySiteWeaknesses(content),
		ScrapedAt:     time.Now().Format(time.RFC3339),
	}, nil
}

func extractServiceAreas(content string) []string {
	areas := []string{}
	for _, match := range areaPattern.FindAllStringSubmatch(content, -1) {
		if len(match) > 1 {
			areas = append(areas, match[1])
		}
	}
	return dedupe(areas, maxServiceAreas)
}

// identifySiteWeaknesses lists the attack surface a thin local-service
// site exposes: missing urgency coverage, trust signals, pricing, and
// social proof.
func identifySiteWeaknesses(content string) []string {
	contentLower := strings.ToLower(content)
	weaknesses := []string{}

	switch {
	case len(content) < 500:
		weaknesses = append(weaknesses, "Very thin content - easy to outrank")
	case len(content) < 1000:
		weaknesses = append(weaknesses, "Thin content - can be beaten with comprehensive page")
	}

	if !strings.Contains(contentLower, "emergency") {
		weaknesses = append(weaknesses, "No emergency service mentioned")
	}
	if !containsAny(contentLower, []string{"saturday", "sunday", "weekend"}) {
		weaknesses = append(weaknesses, "No weekend availability mentioned")
	}
	if !containsAny(contentLower, []string{"license", "insured", "certified"}) {
		weaknesses = append(weaknesses, "No licensing/insurance mentioned")
	}
	if !strings.Contains(content, "$") && !strings.Contains(contentLower, "price") {
		weaknesses = append(weaknesses, "No pricing transparency")
	}
	if !strings.Contains(contentLower, "near me") {
		weaknesses = append(weaknesses, "Not optimized for 'near me' searches")
	}
	if !containsAny(contentLower, []string{"review", "testimonial", "customer"}) {
		weaknesses = append(weaknesses, "No social proof/reviews")
	}

	return weaknesses
}

func dedupe(values []string, max int) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if len(out) == max {
			break
		}
	}
	return out
}
