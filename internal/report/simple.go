package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/webcrawler/internal/model"
)

// ruleWidth is the width of the horizontal rules in text output.
const ruleWidth = 50

// SimpleWriter outputs human-readable text results.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because results are usually appended to files, and escape
// codes would end up in them.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(result *model.CrawlResult) (int, error) {
	result = resultOrEmpty(result)

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("CRAWL RESULT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "URLs visited:  %d\n", result.URLsVisited)
	fmt.Fprintf(&sb, "Popular words: %d\n\n", len(result.WordCounts))

	if len(result.WordCounts) == 0 {
		sb.WriteString("  No words counted\n\n")
		return w.output.Write([]byte(sb.String()))
	}

	width := 0
	for _, wc := range result.WordCounts {
		width = max(width, len(wc.Word))
	}
	for i, wc := range result.WordCounts {
		fmt.Fprintf(&sb, "  %3d. %-*s  %d\n", i+1, width, wc.Word, wc.Count)
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}
