package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// WordCount is a single word and how often it was seen during a crawl.
type WordCount struct {
	Word  string
	Count int
}

// WordCounts is an ordered list of word counts.
//
// Design decision: We use a slice instead of a map because the popular-word
// ranking is part of the result. A Go map would lose the ranking when it is
// iterated or encoded, so the slice keeps it and MarshalJSON renders it as a
// JSON object whose keys appear in rank order.
type WordCounts []WordCount

// Map returns the word counts as a plain map.
func (w WordCounts) Map() map[string]int {
	m := make(map[string]int, len(w))
	for _, wc := range w {
		m[wc.Word] = wc.Count
	}
	return m
}

// Words returns the words in rank order.
func (w WordCounts) Words() []string {
	words := make([]string, len(w))
	for i, wc := range w {
		words[i] = wc.Word
	}
	return words
}

// MarshalJSON encodes the list as a JSON object, preserving order.
func (w WordCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, wc := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(wc.Word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", wc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the list, preserving key order.
func (w *WordCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("word counts: expected JSON object")
	}

	out := make(WordCounts, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		word, ok := keyTok.(string)
		if !ok {
			return errors.New("word counts: expected string key")
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("word counts: value for %q: %w", word, err)
		}
		out = append(out, WordCount{Word: word, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*w = out
	return nil
}

// CrawlResult is the immutable outcome of one crawl.
// It is built once, after every task for every seed has completed.
type CrawlResult struct {
	// WordCounts holds the most popular words, sorted by count descending
	// and then by word ascending.
	WordCounts WordCounts `json:"wordCounts"`

	// URLsVisited is the number of distinct URLs claimed during the crawl.
	// A URL whose fetch failed still counts, because it was claimed.
	URLsVisited int `json:"urlsVisited"`
}

// NewCrawlResult creates a CrawlResult. A nil word list is replaced with an
// empty one so that reports always render an object.
func NewCrawlResult(counts WordCounts, urlsVisited int) *CrawlResult {
	if counts == nil {
		counts = WordCounts{}
	}
	return &CrawlResult{
		WordCounts:  counts,
		URLsVisited: urlsVisited,
	}
}
