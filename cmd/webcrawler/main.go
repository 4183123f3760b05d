// Package main provides the entry point for the webcrawler CLI.
//
// webcrawler crawls the web from a set of start pages, counts the words on
// every page it visits, and reports the most popular ones together with a
// profile of where the time went.
//
// Usage:
//
//	webcrawler crawl <config-file>
//	webcrawler init
//	webcrawler history
//
// See --help for all available options.
package main

// main is the entry point for webcrawler.
func main() {
	Execute()
}
