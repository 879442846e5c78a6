package service

// ResearchRequest asks for a full market research pass on one keyword.
type ResearchRequest struct {
	Keyword  string `json:"keyword" binding:"required"`
	Location string `json:"location"`
}

// FormatRequest asks for the agent-specific view of a research record.
type FormatRequest struct {
	Keyword  string `json:"keyword" binding:"required"`
	Location string `json:"location"`
	Agent    string `json:"agent" binding:"required"`
}

// ScanRequest launches a service x modifier grid scan over a location.
type ScanRequest struct {
	Location  string   `json:"location" binding:"required"`
	Services  []string `json:"services,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// AnalyzeCompetitorRequest asks for a deep scrape of one competitor site.
type AnalyzeCompetitorRequest struct {
	URL string `json:"url" binding:"required,url"`
}
