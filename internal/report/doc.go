// Package report writes crawl results.
//
// This package contains writers for different output formats:
//   - JSONWriter: the result as a JSON object, the default
//   - SimpleWriter: human-readable text for terminal display
//   - MarkdownWriter: GitHub Flavored Markdown with a word table and chart
//
// Design decision: We separate report writing from the result data
// structure (which is in the model package) so that new output formats do
// not touch the crawler.
//
// Open resolves an output path: an empty path is stdout, anything else is
// a file that is appended to, or created when missing.
package report
