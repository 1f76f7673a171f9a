// Package main provides the entry point for the linklint CLI.
//
// linklint is a link checker for static site output directories.
// It scans generated HTML, resolves local references against the
// filesystem, and probes external URLs over HTTP.
//
// Usage:
//
//	linklint scan [site-root]
//	linklint history
//
// See --help for all available options.
package main

// main is the entry point for linklint.
func main() {
	Execute()
}
