package crawler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/nao1215/webcrawler/internal/model"
)

// task is one URL to visit. Tasks are immutable; children are new tasks
// with one less unit of depth and the same deadline.
type task struct {
	url      string
	depth    int
	deadline time.Time
}

func (t task) child(url string) task {
	return task{url: url, depth: t.depth - 1, deadline: t.deadline}
}

// engine runs the crawl algorithm for one Crawl call.
// It owns the State of that call and nothing outlives it.
type engine struct {
	ctx    context.Context
	parser PageParser
	state  *State
	ignore *IgnoreRules
	now    func() time.Time
	logger *slog.Logger

	// slots bounds the number of concurrent fetches.
	slots *semaphore.Weighted

	// inline runs children on the parent's goroutine instead of forking.
	inline bool
}

func newEngine(ctx context.Context, parser PageParser, o options, workers int, inline bool) *engine {
	return &engine{
		ctx:    ctx,
		parser: parser,
		state:  NewState(),
		ignore: o.ignore,
		now:    o.now,
		logger: o.logger,
		slots:  semaphore.NewWeighted(int64(workers)),
		inline: inline,
	}
}

// run visits every seed, waits for all of them, and assembles the result.
func (e *engine) run(seeds []string, o options) (*model.CrawlResult, error) {
	deadline := e.now().Add(o.timeout)

	roots := make([]task, 0, len(seeds))
	for _, seed := range seeds {
		roots = append(roots, task{url: seed, depth: o.maxDepth, deadline: deadline})
	}
	e.visitAll(roots)

	return assemble(e.state, o.popularWordCount), e.ctx.Err()
}

// visitAll runs tasks and returns when all of them are complete.
func (e *engine) visitAll(tasks []task) {
	if e.inline {
		for _, t := range tasks {
			e.visit(t)
		}
		return
	}

	var g errgroup.Group
	for _, t := range tasks {
		g.Go(func() error {
			e.visit(t)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // visit never fails; fetch errors stay in their task
}

// visit is the per-task algorithm.
func (e *engine) visit(t task) {
	if !e.live(t) {
		return
	}

	// Ignored URLs are checked before claiming so they never take a slot
	// in the visited set.
	if e.ignore.Match(t.url) {
		return
	}

	if !e.state.Visited.Add(t.url) {
		return
	}

	page, ok := e.fetch(t)
	if !ok {
		return
	}

	if t.depth <= 1 {
		return
	}

	children := make([]task, 0, len(page.Links))
	for _, link := range page.Links {
		children = append(children, t.child(link))
	}
	e.visitAll(children)
}

// live reports whether t may still do work.
func (e *engine) live(t task) bool {
	if t.depth <= 0 {
		return false
	}
	if !e.now().Before(t.deadline) {
		return false
	}
	return e.ctx.Err() == nil
}

// fetch parses t's page on a worker slot and merges its word counts.
// It reports false when the task must stop without children.
func (e *engine) fetch(t task) (*model.PageResult, bool) {
	if err := e.slots.Acquire(e.ctx, 1); err != nil {
		return nil, false
	}
	defer e.slots.Release(1)

	// Waiting for a slot may have taken us past the deadline.
	if !e.now().Before(t.deadline) {
		return nil, false
	}

	page, err := e.parser.Parse(e.ctx, t.url)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			e.logger.Debug("fetch cancelled", "url", t.url)
		} else {
			e.logger.Warn("fetch failed", "url", t.url, "error", err)
		}
		return nil, false
	}
	if page == nil {
		return model.NewPageResult(), true
	}

	e.state.Words.Merge(page.WordCounts)

	e.logger.Debug("page crawled",
		"url", t.url,
		"links", len(page.Links),
		"words", len(page.WordCounts),
		"totalWords", page.TotalWords(),
		"depth", t.depth,
	)
	return page, true
}
