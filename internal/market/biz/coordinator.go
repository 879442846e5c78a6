package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/leadscout/leadscout-backend/internal/market/types"
	"github.com/leadscout/leadscout-backend/internal/pkg/logger"
	"github.com/leadscout/leadscout-backend/internal/websearch/provider"
	searchtypes "github.com/leadscout/leadscout-backend/internal/websearch/types"
)

// ErrCacheMiss is returned by a ResearchCache when no entry exists
var ErrCacheMiss = errors.New("research cache miss")

// ResearchCache stores completed LiveMarketData records keyed by
// normalized (keyword, location). Full research is expensive, so hits
// bypass the whole pipeline.
type ResearchCache interface {
	Get(ctx context.Context, keyword, location string) (*types.LiveMarketData, error)
	Set(ctx context.Context, keyword, location string, data *types.LiveMarketData) error
}

// Vocabulary for gap and related-keyword mining
var (
	urgencyModifiers = []string{"emergency", "24 hour", "same day", "urgent", "weekend"}
	trustTerms       = []string{"licensed", "insured", "certified", "guarantee"}
	serviceTerms     = []string{
		"repair", "service", "installation", "maintenance",
		"emergency", "licensed", "professional", "local",
	}
)

const (
	maxSERPResults     = 10
	maxRelatedKeywords = 10
	topResultsWindow   = 5
)

// DataCoordinator runs the full market-research pipeline for one
// (keyword, location) and produces a LiveMarketData record. Stages run in
// sequence; any stage failure degrades to empty output for that stage, so
// Gather always returns a usable record and never an error.
type DataCoordinator struct {
	primary    provider.Provider
	fallback   provider.Provider // may be nil
	classifier *CompetitorClassifier
	estimator  *KeywordMetricsEstimator
	cache      ResearchCache // may be nil
	log        *logger.Logger
}

// NewDataCoordinator creates a coordinator. fallback and cache are optional.
func NewDataCoordinator(
	primary provider.Provider,
	fallback provider.Provider,
	cache ResearchCache,
	log *logger.Logger,
) *DataCoordinator {
	return &DataCoordinator{
		primary:    primary,
		fallback:   fallback,
		classifier: NewCompetitorClassifier(),
		estimator:  NewKeywordMetricsEstimator(),
		cache:      cache,
		log:        log,
	}
}

// Gather runs the research pipeline. A cache hit returns the stored record
// verbatim; otherwise every stage runs in order, each isolated so a single
// failure cannot abort the aggregation.
func (d *DataCoordinator) Gather(ctx context.Context, keyword, location string) *types.LiveMarketData {
	if d.cache != nil {
		if cached, err := d.cache.Get(ctx, keyword, location); err == nil {
			d.log.Debug("research cache hit",
				zap.String("keyword", keyword),
				zap.String("location", location),
			)
			return cached
		} else if !errors.Is(err, ErrCacheMiss) {
			d.log.Warn("research cache lookup failed", zap.Error(err))
		}
	}

	d.log.Info("gathering live market data",
		zap.String("keyword", keyword),
		zap.String("location", location),
	)

	data := types.NewLiveMarketData(keyword, location)

	// 1. SERP fetch, with provider fallback
	data.SERPResults = d.fetchSERP(ctx, keyword, location)
	for i, r := range data.SERPResults {
		if i >= maxSERPResults {
			break
		}
		data.CompetitorURLs = append(data.CompetitorURLs, r.URL)
	}

	// 2-8. Derivation stages, each isolated
	d.runStage(data, "classify_competitors", d.classifyCompetitors)
	d.runStage(data, "identify_market_gaps", d.identifyMarketGaps)
	d.runStage(data, "calculate_opportunity", d.calculateOpportunity)
	d.runStage(data, "related_keywords", d.deriveRelatedKeywords)
	d.runStage(data, "content_opportunities", d.findContentOpportunities)
	d.runStage(data, "technical_factors", d.analyzeTechnicalFactors)
	d.runStage(data, "revenue_potential", d.calculateRevenuePotential)

	d.log.Info("market data gathering complete",
		zap.String("keyword", keyword),
		zap.Float64("opportunity_score", data.OpportunityScore),
		zap.Int("serp_results", len(data.SERPResults)),
	)

	if d.cache != nil {
		if err := d.cache.Set(ctx, keyword, location, data); err != nil {
			d.log.Warn("research cache store failed", zap.Error(err))
		}
	}

	return data
}

// runStage executes one derivation stage, converting panics into a logged
// degradation instead of aborting the aggregation.
func (d *DataCoordinator) runStage(data *types.LiveMarketData, name string, stage func(*types.LiveMarketData)) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("pipeline stage failed",
				zap.String("stage", name),
				zap.String("keyword", data.Keyword),
				zap.Any("panic", r),
			)
		}
	}()
	stage(data)
}

// fetchSERP queries the primary provider and falls back to the secondary
// on failure or an empty result set. Both failing yields an empty SERP.
func (d *DataCoordinator) fetchSERP(ctx context.Context, keyword, location string) []*searchtypes.SearchResult {
	query := strings.TrimSpace(keyword + " " + location)
	req := &searchtypes.SearchRequest{Query: query, MaxResults: maxSERPResults}

	resp, err := d.primary.Search(ctx, req)
	if err != nil || resp == nil || len(resp.Results) == 0 {
		if err != nil {
			d.log.Warn("primary search provider failed",
				zap.String("provider", string(d.primary.GetID())),
				zap.Error(err),
			)
		}
		if d.fallback == nil {
			return []*searchtypes.SearchResult{}
		}
		resp, err = d.fallback.Search(ctx, req)
		if err != nil || resp == nil {
			if err != nil {
				d.log.Warn("fallback search provider failed",
					zap.String("provider", string(d.fallback.GetID())),
					zap.Error(err),
				)
			}
			return []*searchtypes.SearchResult{}
		}
	}

	return resp.Results
}

func (d *DataCoordinator) classifyCompetitors(data *types.LiveMarketData) {
	for i, result := range data.SERPResults {
		if i >= maxSERPResults {
			break
		}
		profile := d.classifier.Classify(result, data.Keyword)
		data.CompetitorData = append(data.CompetitorData, profile)
		if profile.IsWeak {
			data.WeakCompetitors = append(data.WeakCompetitors, profile)
		} else {
			data.StrongCompetitors = append(data.StrongCompetitors, profile)
		}
	}
}

// identifyMarketGaps flags urgency modifiers, local optimization, and
// trust signals missing from the top of the SERP.
func (d *DataCoordinator) identifyMarketGaps(data *types.LiveMarketData) {
	if len(data.SERPResults) == 0 {
		// No SERP means no evidence of gaps, only of failure
		return
	}
	top := topResults(data.SERPResults, topResultsWindow)

	for _, modifier := range urgencyModifiers {
		found := false
		for _, r := range top {
			if strings.Contains(strings.ToLower(r.Title), modifier) {
				found = true
				break
			}
		}
		if !found {
			data.MarketGaps = append(data.MarketGaps,
				fmt.Sprintf("No dedicated %s service pages in top %d", modifier, topResultsWindow))
		}
	}

	if d.missingLocalPresence(data) {
		data.MarketGaps = append(data.MarketGaps,
			fmt.Sprintf("Weak local optimization for %s", data.Location))
	}

	trustFound := false
	for _, r := range top {
		if containsAny(strings.ToLower(r.Snippet), trustTerms) {
			trustFound = true
			break
		}
	}
	if !trustFound {
		data.MarketGaps = append(data.MarketGaps, "Missing trust signals in top results")
	}
}

// calculateOpportunity scores the market: weak competition contributes up
// to 40 points, each gap 10, and a missing local presence 20 more. The
// total is clamped to 100. An empty SERP stays at zero.
func (d *DataCoordinator) calculateOpportunity(data *types.LiveMarketData) {
	if len(data.SERPResults) == 0 {
		data.OpportunityScore = 0
		data.DifficultyLevel = types.DifficultyHard
		return
	}

	weakRatio := float64(len(data.WeakCompetitors)) / float64(len(data.SERPResults))

	score := weakRatio * 40
	score += float64(len(data.MarketGaps)) * 10
	if d.missingLocalPresence(data) {
		score += 20
	}
	if score > 100 {
		score = 100
	}

	data.OpportunityScore = score
	data.DifficultyLevel = weakRatioDifficulty(len(data.WeakCompetitors), len(data.SERPResults))
	data.SearchVolumeEstimate = d.estimator.estimateVolume(strings.ToLower(data.Keyword), len(data.SERPResults))
	data.CommercialIntent = d.estimator.classifyIntent(strings.ToLower(data.Keyword)) != types.IntentInformational
}

// missingLocalPresence reports whether the top titles ignore the target
// location. Without a location there is nothing to measure, so no gap
// and no score bonus.
func (d *DataCoordinator) missingLocalPresence(data *types.LiveMarketData) bool {
	locationLower := strings.ToLower(data.Location)
	if locationLower == "" {
		return false
	}
	for _, r := range topResults(data.SERPResults, topResultsWindow) {
		if strings.Contains(strings.ToLower(r.Title), locationLower) {
			return false
		}
	}
	return true
}

// deriveRelatedKeywords expands the keyword with service terms that the
// SERP already talks about but the keyword itself lacks.
func (d *DataCoordinator) deriveRelatedKeywords(data *types.LiveMarketData) {
	var allText strings.Builder
	for _, r := range data.SERPResults {
		allText.WriteString(strings.ToLower(r.Title))
		allText.WriteString(" ")
		allText.WriteString(strings.ToLower(r.Snippet))
		allText.WriteString(" ")
	}
	serpText := allText.String()
	keywordLower := strings.ToLower(data.Keyword)

	for _, term := range serviceTerms {
		if len(data.RelatedKeywords) >= maxRelatedKeywords {
			break
		}
		if strings.Contains(serpText, term) && !strings.Contains(keywordLower, term) {
			data.RelatedKeywords = append(data.RelatedKeywords, data.Keyword+" "+term)
		}
	}
}

// findContentOpportunities lists common buyer questions the SERP leaves
// unanswered, plus coarse content gaps.
func (d *DataCoordinator) findContentOpportunities(data *types.LiveMarketData) {
	if len(data.SERPResults) == 0 {
		return
	}
	questions := []string{
		fmt.Sprintf("How much does %s cost", data.Keyword),
		fmt.Sprintf("How long does %s take", data.Keyword),
		fmt.Sprintf("Do I need %s", data.Keyword),
		fmt.Sprintf("%s vs alternatives", data.Keyword),
		fmt.Sprintf("DIY %s", data.Keyword),
	}

	var snippets strings.Builder
	for _, r := range data.SERPResults {
		snippets.WriteString(strings.ToLower(r.Snippet))
		snippets.WriteString(" ")
	}
	snippetText := snippets.String()

	for _, q := range questions {
		if !strings.Contains(snippetText, strings.ToLower(q)) {
			data.QuestionsToAnswer = append(data.QuestionsToAnswer, q)
		}
	}

	if strings.Contains(strings.ToLower(data.Keyword), "emergency") && !strings.Contains(snippetText, "emergency") {
		data.ContentGaps = append(data.ContentGaps, "No emergency service content")
	}
	if !strings.Contains(snippetText, "price") && !strings.Contains(snippetText, "cost") {
		data.ContentGaps = append(data.ContentGaps, "No pricing information")
	}
	if !strings.Contains(snippetText, "guarantee") {
		data.ContentGaps = append(data.ContentGaps, "No service guarantees mentioned")
	}
}

// analyzeTechnicalFactors derives coarse technical signals from the SERP
func (d *DataCoordinator) analyzeTechnicalFactors(data *types.LiveMarketData) {
	if len(data.SERPResults) == 0 {
		return
	}

	mobileCount := 0
	schemaCount := 0
	for _, r := range data.SERPResults {
		textLower := strings.ToLower(r.Text())
		if strings.Contains(textLower, "mobile") {
			mobileCount++
		}
		if strings.Contains(textLower, "rating") || strings.Contains(textLower, "reviews") ||
			strings.Contains(textLower, "price") {
			schemaCount++
		}
	}

	data.MobileFriendlyRatio = float64(mobileCount) / float64(len(data.SERPResults))
	data.SchemaUsage["LocalBusiness"] = schemaCount
}

// calculateRevenuePotential looks up CPC and lead value by vertical and
// multiplies by the expected monthly leads for the difficulty tier.
func (d *DataCoordinator) calculateRevenuePotential(data *types.LiveMarketData) {
	keywordLower := strings.ToLower(data.Keyword)

	switch {
	case strings.Contains(keywordLower, "emergency"):
		data.EstimatedCPC = 25.0
		data.LeadValue = 200.0
	case strings.Contains(keywordLower, "lawyer") || strings.Contains(keywordLower, "attorney"):
		data.EstimatedCPC = 50.0
		data.LeadValue = 500.0
	case strings.Contains(keywordLower, "plumber"):
		data.EstimatedCPC = 15.0
		data.LeadValue = 150.0
	default:
		data.EstimatedCPC = 10.0
		data.LeadValue = 100.0
	}

	if len(data.SERPResults) == 0 {
		// Nothing to base a projection on
		data.EstimatedCPC = 0
		data.LeadValue = 0
		data.MonthlyRevenuePotential = 0
		return
	}

	var monthlyLeads float64
	switch data.DifficultyLevel {
	case types.DifficultyEasy:
		monthlyLeads = 50
	case types.DifficultyMedium:
		monthlyLeads = 30
	default:
		monthlyLeads = 15
	}

	data.MonthlyRevenuePotential = monthlyLeads * data.LeadValue
}

func topResults(serp []*searchtypes.SearchResult, n int) []*searchtypes.SearchResult {
	if len(serp) < n {
		return serp
	}
	return serp[:n]
}
