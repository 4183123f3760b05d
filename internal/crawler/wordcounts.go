package crawler

import (
	"sort"

	"github.com/nao1215/webcrawler/internal/model"
)

// Sort ranks counts by count descending, then by word ascending, and keeps
// the first n entries. Ties that straddle the cut are truncated, so the
// result never has more than n entries. n <= 0 yields an empty list.
func Sort(counts map[string]int, n int) model.WordCounts {
	if n <= 0 || len(counts) == 0 {
		return model.WordCounts{}
	}

	ranked := make(model.WordCounts, 0, len(counts))
	for word, count := range counts {
		ranked = append(ranked, model.WordCount{Word: word, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// assemble builds the final result from a finished crawl's state.
func assemble(state *State, popularWordCount int) *model.CrawlResult {
	visited := state.Visited.Len()
	if state.Words.Len() == 0 {
		return model.NewCrawlResult(model.WordCounts{}, visited)
	}
	return model.NewCrawlResult(Sort(state.Words.Snapshot(), popularWordCount), visited)
}
