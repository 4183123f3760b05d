package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/webcrawler/internal/crawler"
)

// wordCounter splits text into words and counts them.
// A wordCounter is not safe for concurrent use because cases.Caser keeps
// state; Extract creates one per document.
type wordCounter struct {
	caser   cases.Caser
	ignored *crawler.IgnoreRules
}

func newWordCounter(ignored *crawler.IgnoreRules) *wordCounter {
	return &wordCounter{
		caser:   cases.Lower(language.Und),
		ignored: ignored,
	}
}

// count adds the words of text to counts.
func (w *wordCounter) count(text string, counts map[string]int) {
	text = norm.NFC.String(text)
	for _, field := range strings.FieldsFunc(text, isWordSeparator) {
		word := w.caser.String(field)
		if w.ignored.Match(word) {
			continue
		}
		counts[word]++
	}
}

// CountWords returns the word counts of plain text.
func CountWords(text string, ignored *crawler.IgnoreRules) map[string]int {
	counts := make(map[string]int)
	newWordCounter(ignored).count(text, counts)
	return counts
}

func isWordSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r)
}
