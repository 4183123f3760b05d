// Package model defines the core data structures shared by the crawler,
// the page parser, and the report writers.
//
// This package contains the following main types:
//   - PageResult: links and word counts extracted from a single page
//   - CrawlResult: the immutable outcome of one crawl
//   - WordCounts: an ordered word/count list that keeps its order in JSON
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The crawler, the parser, the report writers and the history
// database all need these types, so centralizing them prevents import cycles.
package model
