// Package crawler walks a static site's output directory and extracts
// the outbound references from each HTML document.
//
// # Components
//
//   - DiscoverHTML: recursively lists every .html file under the site root
//   - Parser: extracts (URL, kind) reference pairs from one document
//
// Discovery order comes from filepath.WalkDir and is lexical, so the
// order of link records in a report is stable across runs over the same
// tree. Within a document, references are yielded in document order.
//
// Design decision: We parse with golang.org/x/net/html rather than
// regex because:
//  1. It correctly handles the malformed HTML generators still emit
//  2. It provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
//  4. Standard library extension, well-maintained
package crawler
