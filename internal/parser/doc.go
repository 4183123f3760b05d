// Package parser fetches web pages and extracts their links and word counts.
//
// The Parser type implements crawler.PageParser. It understands http, https
// and file URLs. HTML is parsed with golang.org/x/net/html; anything that is
// not HTML yields a page with no links and no words.
//
// # Words
//
// A word is a maximal run of Unicode letters and digits in the visible text
// of a page. Text inside script, style and noscript elements is not visible.
// Words are NFC-normalized and lower-cased before counting, so "Café" and
// "CAFÉ" are the same word.
//
// # Transport
//
// NewHTTPClient builds the HTTP client used for fetching. It can route all
// traffic through a SOCKS5 proxy and injects a User-Agent, extra headers
// and a cookie into every request.
package parser
