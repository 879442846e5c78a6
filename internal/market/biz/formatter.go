package biz

import (
	"github.com/leadscout/leadscout-backend/internal/market/types"
)

// Agent names recognized by the formatter
const (
	AgentMarketScanner    = "MarketScanner"
	AgentSEOStrategist    = "SEOStrategist"
	AgentContentGenerator = "ContentGenerator"
	AgentWebsiteArchitect = "WebsiteArchitect"
)

// AgentDataFormatter projects a LiveMarketData record into the view each
// downstream agent consumes. It is stateless; formatting the same record
// twice yields identical output.
type AgentDataFormatter struct{}

// NewAgentDataFormatter creates a formatter
func NewAgentDataFormatter() *AgentDataFormatter {
	return &AgentDataFormatter{}
}

// Format selects and renames the subset of fields the named agent needs.
// Unrecognized agent names get the full record, keeping new agents usable
// before a dedicated view exists.
func (f *AgentDataFormatter) Format(agentName string, data *types.LiveMarketData) map[string]interface{} {
	switch agentName {
	case AgentMarketScanner:
		return map[string]interface{}{
			"keyword":           data.Keyword,
			"location":          data.Location,
			"competitors":       data.CompetitorData,
			"opportunity_score": data.OpportunityScore,
			"market_gaps":       data.MarketGaps,
		}

	case AgentSEOStrategist:
		weaknesses := make([][]string, 0, len(data.WeakCompetitors))
		for _, c := range data.WeakCompetitors {
			weaknesses = append(weaknesses, c.Weaknesses)
		}
		return map[string]interface{}{
			"keyword":               data.Keyword,
			"related_keywords":      data.RelatedKeywords,
			"competitor_weaknesses": weaknesses,
			"content_gaps":          data.ContentGaps,
			"difficulty":            data.DifficultyLevel,
		}

	case AgentContentGenerator:
		snippets := make([]string, 0, topResultsWindow)
		for i, r := range data.SERPResults {
			if i >= topResultsWindow {
				break
			}
			snippets = append(snippets, r.Snippet)
		}
		return map[string]interface{}{
			"keyword":             data.Keyword,
			"questions_to_answer": data.QuestionsToAnswer,
			"content_gaps":        data.ContentGaps,
			"competitor_snippets": snippets,
		}

	case AgentWebsiteArchitect:
		urls := data.CompetitorURLs
		if len(urls) > topResultsWindow {
			urls = urls[:topResultsWindow]
		}
		return map[string]interface{}{
			"keyword":         data.Keyword,
			"location":        data.Location,
			"competitor_urls": urls,
			"mobile_priority": data.MobileFriendlyRatio < 0.5,
			"schema_needed":   data.SchemaUsage["LocalBusiness"] < 3,
		}
	}

	return map[string]interface{}{
		"keyword":           data.Keyword,
		"location":          data.Location,
		"opportunity_score": data.OpportunityScore,
		"market_data":       data,
	}
}
