package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/webcrawler/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables and code blocks
// 3. GitHub-flavored markdown alerts and mermaid charts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	result = resultOrEmpty(result)
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Result")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URLs Visited", strconv.Itoa(result.URLsVisited)},
			{"Popular Words", strconv.Itoa(len(result.WordCounts))},
		},
	})
	md.PlainText("")

	md.H2("Popular Words")
	md.PlainText("")
	if len(result.WordCounts) == 0 {
		md.Note("No words were counted.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(result.WordCounts))
	for i, wc := range result.WordCounts {
		rows = append(rows, []string{strconv.Itoa(i + 1), "`" + wc.Word + "`", strconv.Itoa(wc.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Word", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, result.WordCounts)

	return len(md.String()), md.Build()
}

// writePieChart writes a mermaid pie chart of the word distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts model.WordCounts) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Word Distribution"),
		piechart.WithShowData(true),
	)
	for _, wc := range counts {
		if wc.Count > 0 {
			chart.LabelAndIntValue(wc.Word, uint64(wc.Count))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
