package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestWordCountsJSON(t *testing.T) {
	t.Parallel()

	t.Run("keeps rank order when encoding", func(t *testing.T) {
		t.Parallel()

		result := NewCrawlResult(WordCounts{
			{Word: "zebra", Count: 9},
			{Word: "apple", Count: 4},
			{Word: "mango", Count: 4},
		}, 3)

		data, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		want := `{"wordCounts":{"zebra":9,"apple":4,"mango":4},"urlsVisited":3}`
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	})

	t.Run("escapes words", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(WordCounts{{Word: `say "hi"`, Count: 1}})
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		if !strings.Contains(string(data), `"say \"hi\""`) {
			t.Errorf("expected escaped key, got %s", data)
		}
	})

	t.Run("decodes in document order", func(t *testing.T) {
		t.Parallel()

		var result CrawlResult
		input := `{"wordCounts":{"b":2,"a":1},"urlsVisited":7}`
		if err := json.Unmarshal([]byte(input), &result); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}

		if result.URLsVisited != 7 {
			t.Errorf("expected 7 URLs visited, got %d", result.URLsVisited)
		}
		words := result.WordCounts.Words()
		if len(words) != 2 || words[0] != "b" || words[1] != "a" {
			t.Errorf("expected [b a], got %v", words)
		}
	})

	t.Run("rejects non-object", func(t *testing.T) {
		t.Parallel()

		var wc WordCounts
		if err := json.Unmarshal([]byte(`[1,2]`), &wc); err == nil {
			t.Error("expected error for JSON array")
		}
	})
}

func TestNewCrawlResult(t *testing.T) {
	t.Parallel()

	result := NewCrawlResult(nil, 4)
	if result.WordCounts == nil {
		t.Fatal("expected non-nil word counts")
	}
	if result.URLsVisited != 4 {
		t.Errorf("expected 4 URLs visited, got %d", result.URLsVisited)
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(data) != `{"wordCounts":{},"urlsVisited":4}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestPageResultTotalWords(t *testing.T) {
	t.Parallel()

	page := NewPageResult()
	page.WordCounts["a"] = 2
	page.WordCounts["b"] = 3

	if got := page.TotalWords(); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}
