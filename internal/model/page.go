package model

// PageResult is what a page parser extracts from one page.
// It is produced once per fetched URL and is not shared between tasks.
type PageResult struct {
	// Links contains the absolute URLs discovered on the page, in document order.
	// The list may contain duplicates; the crawler deduplicates on its own.
	Links []string `json:"links"`

	// WordCounts maps each word found in the page's visible text to the
	// number of times it occurs on that page.
	WordCounts map[string]int `json:"wordCounts"`
}

// NewPageResult returns an empty PageResult with an initialized word map.
func NewPageResult() *PageResult {
	return &PageResult{
		Links:      make([]string, 0),
		WordCounts: make(map[string]int),
	}
}

// TotalWords returns the sum of all word counts on the page.
func (p *PageResult) TotalWords() int {
	total := 0
	for _, n := range p.WordCounts {
		total += n
	}
	return total
}
