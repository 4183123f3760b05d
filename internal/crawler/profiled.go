package crawler

import (
	"context"
	"fmt"

	"github.com/nao1215/webcrawler/internal/model"
	"github.com/nao1215/webcrawler/internal/profiler"
)

// profiledCrawler is a WebCrawler that routes every call through a profiler proxy.
type profiledCrawler struct {
	proxy  *profiler.Proxy
	target WebCrawler
}

// NewProfiledCrawler wraps c so that its profiled operations are timed by p.
// c must implement profiler.Tagged.
func NewProfiledCrawler(p *profiler.Profiler, c WebCrawler) (WebCrawler, error) {
	proxy, err := wrap(p, c)
	if err != nil {
		return nil, err
	}
	return &profiledCrawler{proxy: proxy, target: c}, nil
}

// Crawl implements WebCrawler.
func (c *profiledCrawler) Crawl(ctx context.Context, seeds []string) (*model.CrawlResult, error) {
	return profiler.Call(c.proxy, OperationCrawl, func() (*model.CrawlResult, error) {
		return c.target.Crawl(ctx, seeds)
	})
}

// MaxParallelism implements WebCrawler.
func (c *profiledCrawler) MaxParallelism() int {
	n, err := profiler.Call(c.proxy, OperationMaxParallelism, func() (int, error) {
		return c.target.MaxParallelism(), nil
	})
	if err != nil {
		// The tag table is fixed at wrap time, so a dispatch failure here is
		// a programming error.
		panic(err)
	}
	return n
}

// profiledParser is a PageParser that routes every call through a profiler proxy.
type profiledParser struct {
	proxy  *profiler.Proxy
	target PageParser
}

// NewProfiledParser wraps pp so that its profiled operations are timed by p.
// pp must implement profiler.Tagged.
func NewProfiledParser(p *profiler.Profiler, pp PageParser) (PageParser, error) {
	proxy, err := wrap(p, pp)
	if err != nil {
		return nil, err
	}
	return &profiledParser{proxy: proxy, target: pp}, nil
}

// Parse implements PageParser.
func (pp *profiledParser) Parse(ctx context.Context, url string) (*model.PageResult, error) {
	return profiler.Call(pp.proxy, OperationParse, func() (*model.PageResult, error) {
		return pp.target.Parse(ctx, url)
	})
}

func wrap(p *profiler.Profiler, target any) (*profiler.Proxy, error) {
	tagged, ok := target.(profiler.Tagged)
	if !ok {
		return nil, fmt.Errorf("%w: %T does not declare its operations", profiler.ErrInvalidArgument, target)
	}
	return p.Wrap(tagged)
}
