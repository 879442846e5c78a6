package types

// SearchResponse represents a search response
type SearchResponse struct {
	Query      string          `json:"query"`
	Results    []*SearchResult `json:"results"`
	TotalCount int             `json:"total_count,omitempty"`
	Took       int64           `json:"took"` // milliseconds
	Provider   ProviderID      `json:"provider"`
}

// SearchResult is one SERP entry. Rank is the 1-based position within the
// response; results are immutable once returned by a provider.
type SearchResult struct {
	Rank    int    `json:"rank"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`           // short description shown on the SERP
	Content string `json:"content,omitempty"` // extracted page text, when the provider returns it
}

// Text returns the richest text available for the result, preferring
// full content over the snippet.
func (r *SearchResult) Text() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Snippet
}
