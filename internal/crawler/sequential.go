package crawler

import (
	"context"

	"github.com/nao1215/webcrawler/internal/model"
	"github.com/nao1215/webcrawler/internal/profiler"
)

// SequentialCrawler runs the crawl algorithm depth-first on the calling
// goroutine. It is the reference implementation the parallel crawler is
// tested against, and is useful against hosts that dislike concurrent
// requests.
type SequentialCrawler struct {
	parser PageParser
	opts   options
}

// NewSequentialCrawler creates a SequentialCrawler. The parallelism option
// is accepted and ignored.
func NewSequentialCrawler(parser PageParser, opts ...Option) *SequentialCrawler {
	return &SequentialCrawler{
		parser: parser,
		opts:   newOptions(opts),
	}
}

// Crawl implements WebCrawler.
func (c *SequentialCrawler) Crawl(ctx context.Context, seeds []string) (*model.CrawlResult, error) {
	return newEngine(ctx, c.parser, c.opts, 1, true).run(seeds, c.opts)
}

// MaxParallelism implements WebCrawler.
func (c *SequentialCrawler) MaxParallelism() int {
	return MaxParallelism()
}

// Operations implements profiler.Tagged.
func (c *SequentialCrawler) Operations() []profiler.Operation {
	return crawlerOperations
}
