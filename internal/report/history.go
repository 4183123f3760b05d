package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/webcrawler/internal/database"
)

// topWordsInHistory is how many words each history row shows.
const topWordsInHistory = 3

// WriteHistory writes recorded runs as a Markdown table.
func WriteHistory(output io.Writer, runs []database.Run) error {
	md := markdown.NewMarkdown(output)

	md.H1("Crawl History")
	md.PlainText("")

	if len(runs) == 0 {
		md.Note("No runs have been recorded. Use `webcrawler crawl --save` to record one.")
		return md.Build()
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		urlsVisited := 0
		var words []string
		if run.Result != nil {
			urlsVisited = run.Result.URLsVisited
			for i, wc := range run.Result.WordCounts {
				if i == topWordsInHistory {
					break
				}
				words = append(words, wc.Word+" ("+strconv.Itoa(wc.Count)+")")
			}
		}

		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.StartedAt.Format("2006-01-02 15:04:05 MST"),
			run.Duration.String(),
			run.Implementation,
			strings.Join(run.StartPages, "<br>"),
			strconv.Itoa(urlsVisited),
			strings.Join(words, ", "),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Duration", "Crawler", "Start Pages", "URLs Visited", "Top Words"},
		Rows:   rows,
	})
	md.PlainText("")

	return md.Build()
}
