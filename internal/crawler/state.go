package crawler

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// shardCount is the number of lock stripes in VisitedSet and WordCounts.
const shardCount = 64

// shardIndex picks the stripe for key.
// The hash only selects a stripe; keys are stored verbatim.
func shardIndex(key string) uint64 {
	return xxhash.Sum64String(key) % shardCount
}

// VisitedSet is the set of URLs claimed during one crawl.
// It only grows. Add is an atomic insert-if-absent.
//
// Design decision: We stripe the set over independent mutexes rather than
// using a single lock so that tasks claiming different URLs rarely contend,
// and so that claiming never waits on word-count merges, which use their
// own stripes.
type VisitedSet struct {
	shards [shardCount]visitedShard
}

type visitedShard struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewVisitedSet returns an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	s := &VisitedSet{}
	for i := range s.shards {
		s.shards[i].urls = make(map[string]struct{})
	}
	return s
}

// Add inserts url and reports whether it was absent.
// Exactly one of any number of concurrent callers with the same url gets true.
func (s *VisitedSet) Add(url string) bool {
	sh := &s.shards[shardIndex(url)]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.urls[url]; ok {
		return false
	}
	sh.urls[url] = struct{}{}
	return true
}

// Contains reports whether url has been claimed.
func (s *VisitedSet) Contains(url string) bool {
	sh := &s.shards[shardIndex(url)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, ok := sh.urls[url]
	return ok
}

// Len returns the number of claimed URLs.
func (s *VisitedSet) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.urls)
		sh.mu.Unlock()
	}
	return n
}

// URLs returns the claimed URLs in lexical order.
func (s *VisitedSet) URLs() []string {
	urls := make([]string, 0)
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for u := range sh.urls {
			urls = append(urls, u)
		}
		sh.mu.Unlock()
	}
	sort.Strings(urls)
	return urls
}

// WordCounts accumulates word counts from many pages.
// Each per-word update is an atomic read-modify-write; merges from
// different pages may interleave freely because addition commutes.
type WordCounts struct {
	shards [shardCount]countShard
}

type countShard struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewWordCounts returns an empty WordCounts.
func NewWordCounts() *WordCounts {
	w := &WordCounts{}
	for i := range w.shards {
		w.shards[i].counts = make(map[string]int)
	}
	return w
}

// Add adds n occurrences of word. Non-positive n is ignored.
func (w *WordCounts) Add(word string, n int) {
	if n <= 0 {
		return
	}
	sh := &w.shards[shardIndex(word)]
	sh.mu.Lock()
	sh.counts[word] += n
	sh.mu.Unlock()
}

// Merge adds every count in page.
func (w *WordCounts) Merge(page map[string]int) {
	for word, n := range page {
		w.Add(word, n)
	}
}

// Get returns the count for word.
func (w *WordCounts) Get(word string) int {
	sh := &w.shards[shardIndex(word)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.counts[word]
}

// Len returns the number of distinct words.
func (w *WordCounts) Len() int {
	n := 0
	for i := range w.shards {
		sh := &w.shards[i]
		sh.mu.Lock()
		n += len(sh.counts)
		sh.mu.Unlock()
	}
	return n
}

// Snapshot copies the counts into a plain map.
func (w *WordCounts) Snapshot() map[string]int {
	out := make(map[string]int)
	for i := range w.shards {
		sh := &w.shards[i]
		sh.mu.Lock()
		for word, n := range sh.counts {
			out[word] = n
		}
		sh.mu.Unlock()
	}
	return out
}

// State is the shared mutable state of one crawl.
// A State is created per Crawl call and never reused.
type State struct {
	Visited *VisitedSet
	Words   *WordCounts
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		Visited: NewVisitedSet(),
		Words:   NewWordCounts(),
	}
}
