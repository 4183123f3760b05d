package crawler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// GlobPrefix marks a pattern as a glob instead of a regular expression.
const GlobPrefix = "glob:"

// IgnoreRules is a set of patterns; a string matching any of them is ignored.
// The zero value and nil match nothing.
//
// Patterns are regular expressions that must match the whole input, or globs
// when prefixed with "glob:" (e.g. "glob:https://*.example.com/admin/*").
//
// Design decision: Regular expressions match the whole input rather than a
// substring because:
//  1. A bare word like "login" should not silently ignore every URL containing it
//  2. Configuration files written for full-match semantics keep working
//  3. Substring behavior is one ".*" away
type IgnoreRules struct {
	patterns []string
	matchers []matcher
}

type matcher interface {
	Match(s string) bool
}

type regexpMatcher struct {
	re *regexp.Regexp
}

func (m regexpMatcher) Match(s string) bool {
	return m.re.MatchString(s)
}

// NewIgnoreRules compiles patterns. An invalid pattern is reported with its
// position so that configuration errors point at the offending entry.
func NewIgnoreRules(patterns []string) (*IgnoreRules, error) {
	rules := &IgnoreRules{
		patterns: make([]string, 0, len(patterns)),
		matchers: make([]matcher, 0, len(patterns)),
	}

	for i, p := range patterns {
		m, err := compilePattern(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %d (%q): %w", i, p, err)
		}
		rules.patterns = append(rules.patterns, p)
		rules.matchers = append(rules.matchers, m)
	}

	return rules, nil
}

func compilePattern(p string) (matcher, error) {
	if rest, ok := strings.CutPrefix(p, GlobPrefix); ok {
		g, err := glob.Compile(rest)
		if err != nil {
			return nil, err
		}
		return g, nil
	}

	re, err := regexp.Compile(`^(?:` + p + `)$`)
	if err != nil {
		return nil, err
	}
	return regexpMatcher{re: re}, nil
}

// Match reports whether s matches any pattern.
func (r *IgnoreRules) Match(s string) bool {
	if r == nil {
		return false
	}
	for _, m := range r.matchers {
		if m.Match(s) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (r *IgnoreRules) Patterns() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// Len returns the number of patterns.
func (r *IgnoreRules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.matchers)
}
