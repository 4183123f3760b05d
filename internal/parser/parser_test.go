package parser

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/webcrawler/internal/crawler"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Hello World</title>
  <style>body { color: red; }</style>
  <script>var hidden = "secret";</script>
</head>
<body>
  <h1>Hello, hello!</h1>
  <p>Go is fun. GO is fast.</p>
  <noscript>enable javascript</noscript>
  <a href="/about">About</a>
  <a href="page2.html#section">Page 2</a>
  <a href="page2.html#other">Page 2 again</a>
  <a href="https://other.example.com/x">Other</a>
  <a href="javascript:void(0)">JS</a>
  <a href="mailto:someone@example.com">Mail</a>
  <a href="tel:+123">Tel</a>
  <a href="#top">Top</a>
  <a href="ftp://files.example.com/">FTP</a>
</body>
</html>`

func TestExtract(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/dir/index.html")
	if err != nil {
		t.Fatal(err)
	}

	page, err := Extract(base, strings.NewReader(samplePage), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("links are resolved and deduplicated", func(t *testing.T) {
		t.Parallel()

		want := []string{
			"https://example.com/about",
			"https://example.com/dir/page2.html",
			"https://other.example.com/x",
		}
		if !slices.Equal(page.Links, want) {
			t.Errorf("expected links %v, got %v", want, page.Links)
		}
	})

	t.Run("visible words are counted case-insensitively", func(t *testing.T) {
		t.Parallel()

		if page.WordCounts["hello"] != 3 {
			t.Errorf("expected hello=3, got %d", page.WordCounts["hello"])
		}
		if page.WordCounts["go"] != 2 {
			t.Errorf("expected go=2, got %d", page.WordCounts["go"])
		}
		if page.WordCounts["about"] != 1 {
			t.Errorf("expected about=1, got %d", page.WordCounts["about"])
		}
	})

	t.Run("script style and noscript are invisible", func(t *testing.T) {
		t.Parallel()

		for _, w := range []string{"secret", "hidden", "color", "red", "enable", "javascript"} {
			if n, ok := page.WordCounts[w]; ok {
				t.Errorf("expected %q not to be counted, got %d", w, n)
			}
		}
	})
}

func TestExtractIgnoredWords(t *testing.T) {
	t.Parallel()

	rules, err := crawler.NewIgnoreRules([]string{"the", "a", "^.{1,2}$"})
	if err != nil {
		t.Fatal(err)
	}
	base, _ := url.Parse("https://example.com/") //nolint:errcheck // constant URL

	page, err := Extract(base, strings.NewReader("<p>The cat and a dog. Theory of it.</p>"), rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]int{"cat": 1, "and": 1, "dog": 1, "theory": 1}
	if !maps.Equal(page.WordCounts, want) {
		t.Errorf("expected %v, got %v", want, page.WordCounts)
	}
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want map[string]int
	}{
		{
			name: "punctuation separates words",
			text: "one,two;three... one!",
			want: map[string]int{"one": 2, "two": 1, "three": 1},
		},
		{
			name: "digits are part of words",
			text: "http2 and 2024",
			want: map[string]int{"http2": 1, "and": 1, "2024": 1},
		},
		{
			name: "composed and decomposed forms are one word",
			text: "Café CAFÉ",
			want: map[string]int{"café": 2},
		},
		{
			name: "empty text",
			text: "  \n\t ",
			want: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CountWords(tt.text, nil); !maps.Equal(got, tt.want) {
				t.Errorf("CountWords(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	base, _ := url.Parse("http://example.com/a/b.html") //nolint:errcheck // constant URL

	tests := []struct {
		href string
		want string
	}{
		{"c.html", "http://example.com/a/c.html"},
		{"../d.html", "http://example.com/d.html"},
		{"//cdn.example.com/e", "http://cdn.example.com/e"},
		{"  /f  ", "http://example.com/f"},
		{"/g#frag", "http://example.com/g"},
		{"#", ""},
		{"#frag", ""},
		{"", ""},
		{"JavaScript:alert(1)", ""},
		{"data:text/plain,hi", ""},
		{"ftp://example.com/", ""},
	}

	for _, tt := range tests {
		if got := resolveURL(base, tt.href); got != tt.want {
			t.Errorf("resolveURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestParserHTTP(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body><p>Welcome home</p><a href="/next">next</a></body></html>`)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		fmt.Fprint(w, "<html><body>not really html</body></html>")
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/sub/landing", http.StatusFound)
	})
	mux.HandleFunc("/sub/landing", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<a href="sibling">sibling</a>`)
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<p>first "+strings.Repeat("x", 200)+" last</p>")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	p := New()

	t.Run("html page", func(t *testing.T) {
		t.Parallel()

		page, err := p.Parse(context.Background(), server.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(page.Links, []string{server.URL + "/next"}) {
			t.Errorf("unexpected links %v", page.Links)
		}
		want := map[string]int{"welcome": 1, "home": 1, "next": 1}
		if !maps.Equal(page.WordCounts, want) {
			t.Errorf("expected %v, got %v", want, page.WordCounts)
		}
	})

	t.Run("non-2xx status is a fetch error", func(t *testing.T) {
		t.Parallel()

		_, err := p.Parse(context.Background(), server.URL+"/missing")
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %v", err)
		}
		if fetchErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", fetchErr.StatusCode)
		}
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Error("expected error to wrap ErrUnexpectedStatus")
		}
		if fetchErr.URL != server.URL+"/missing" {
			t.Errorf("unexpected URL %q", fetchErr.URL)
		}
	})

	t.Run("non-html content is empty", func(t *testing.T) {
		t.Parallel()

		page, err := p.Parse(context.Background(), server.URL+"/image.png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Links) != 0 || len(page.WordCounts) != 0 {
			t.Errorf("expected empty page, got %+v", page)
		}
	})

	t.Run("links resolve against the redirect target", func(t *testing.T) {
		t.Parallel()

		page, err := p.Parse(context.Background(), server.URL+"/moved")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(page.Links, []string{server.URL + "/sub/sibling"}) {
			t.Errorf("unexpected links %v", page.Links)
		}
	})

	t.Run("body is capped", func(t *testing.T) {
		t.Parallel()

		page, err := New(WithMaxBodySize(20)).Parse(context.Background(), server.URL+"/big")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.WordCounts["first"] != 1 {
			t.Errorf("expected first=1, got %v", page.WordCounts)
		}
		if _, ok := page.WordCounts["last"]; ok {
			t.Error("content past the cap must not be counted")
		}
	})

	t.Run("unreachable host is a fetch error", func(t *testing.T) {
		t.Parallel()

		closed := httptest.NewServer(http.NotFoundHandler())
		addr := closed.URL
		closed.Close()

		_, err := p.Parse(context.Background(), addr)
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %v", err)
		}
		if fetchErr.StatusCode != 0 {
			t.Errorf("expected no status, got %d", fetchErr.StatusCode)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Parse(ctx, server.URL+"/")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestParserFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	index := filepath.Join(dir, "index.html")
	if err := os.WriteFile(index, []byte(`<p>local words words</p><a href="other.html">other</a>`), 0o600); err != nil {
		t.Fatal(err)
	}

	u := (&url.URL{Scheme: "file", Path: index}).String()
	page, err := New().Parse(context.Background(), u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLink := (&url.URL{Scheme: "file", Path: filepath.Join(dir, "other.html")}).String()
	if !slices.Equal(page.Links, []string{wantLink}) {
		t.Errorf("expected links [%s], got %v", wantLink, page.Links)
	}
	if page.WordCounts["words"] != 2 {
		t.Errorf("expected words=2, got %v", page.WordCounts)
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		missing := (&url.URL{Scheme: "file", Path: filepath.Join(dir, "nope.html")}).String()
		_, err := New().Parse(context.Background(), missing)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

func TestParserUnsupportedScheme(t *testing.T) {
	t.Parallel()

	_, err := New().Parse(context.Background(), "gopher://example.com/")
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestParserRateLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<p>ok</p>")
	}))
	t.Cleanup(server.Close)

	p := New(WithRequestsPerSecond(20))
	start := time.Now()
	for range 3 {
		if _, err := p.Parse(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// One burst token, then two more at 50ms intervals.
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("expected rate limiting to take at least 90ms, took %v", elapsed)
	}
}

func TestParserOperations(t *testing.T) {
	t.Parallel()

	ops := New().Operations()
	if len(ops) != 1 || ops[0].Name != crawler.OperationParse || !ops[0].Profiled {
		t.Errorf("unexpected operations %+v", ops)
	}
}

func TestIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"", true},
		{"text/html", true},
		{"text/html; charset=utf-8", true},
		{"application/xhtml+xml", true},
		{"application/json", false},
		{"image/png", false},
		{"not a media type;;", false},
	}
	for _, tt := range tests {
		if got := isHTML(tt.contentType); got != tt.want {
			t.Errorf("isHTML(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}
