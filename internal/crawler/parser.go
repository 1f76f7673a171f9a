package crawler

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/nao1215/linklint/internal/model"
)

// Reference is one outbound URL extracted from a document, tagged with
// the attribute it came from. References are yielded in document order.
type Reference struct {
	// URL is the raw attribute value, surrounding whitespace trimmed,
	// otherwise exactly as it appeared.
	URL string

	// Kind identifies the extracting rule: anchor, image, stylesheet,
	// or script.
	Kind model.LinkKind
}

// Parser extracts outbound references from HTML documents.
//
// The zero value is ready to use; the type exists so callers can hold
// one parser per crawl and so extraction rules gain a place to carry
// configuration later without changing call sites.
type Parser struct{}

// NewParser creates a new HTML reference parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads one HTML document and returns its references in document
// order. Extraction covers:
//
//	<a href=...>                  -> anchor
//	<img src=...>                 -> image
//	<link rel="stylesheet" href=...> -> stylesheet
//	<script src=...>              -> script
//
// Input in any encoding the charset sniffer recognizes is accepted;
// content is transcoded to UTF-8 before parsing. html.Parse recovers
// from malformed markup, so an error here means the document could not
// be read at all. Such failures are per-file: the caller records them
// and continues with the next document.
func (p *Parser) Parse(r io.Reader) ([]Reference, error) {
	// Sniff the encoding from a BOM, a <meta charset>, or content
	// heuristics. UTF-8 input passes through untouched.
	decoded, err := charset.NewReader(r, "")
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(decoded)
	if err != nil {
		return nil, err
	}

	refs := make([]Reference, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if ref, ok := extractReference(n); ok {
				refs = append(refs, ref)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return refs, nil
}

// extractReference returns the reference carried by an element node,
// if any.
func extractReference(n *html.Node) (Reference, bool) {
	switch n.DataAtom {
	case atom.A:
		if href, ok := attrValue(n, "href"); ok {
			return Reference{URL: href, Kind: model.KindAnchor}, true
		}

	case atom.Img:
		if src, ok := attrValue(n, "src"); ok {
			return Reference{URL: src, Kind: model.KindImage}, true
		}

	case atom.Link:
		// Only stylesheet links are checked. Other rel values (icons,
		// preloads, canonical) are out of extraction scope.
		if rel, ok := attrValue(n, "rel"); !ok || !isStylesheetRel(rel) {
			return Reference{}, false
		}
		if href, ok := attrValue(n, "href"); ok {
			return Reference{URL: href, Kind: model.KindStylesheet}, true
		}

	case atom.Script:
		if src, ok := attrValue(n, "src"); ok {
			return Reference{URL: src, Kind: model.KindScript}, true
		}
	}

	return Reference{}, false
}

// isStylesheetRel reports whether a rel attribute names a stylesheet.
// rel is a space-separated token list ("alternate stylesheet") and
// token matching is case-insensitive per the HTML spec.
func isStylesheetRel(rel string) bool {
	for _, token := range strings.Fields(rel) {
		if strings.EqualFold(token, "stylesheet") {
			return true
		}
	}
	return false
}

// attrValue returns the trimmed value of the named attribute. The
// boolean is false when the attribute is absent or empty after
// trimming; empty references are skipped at classification anyway, but
// dropping them here keeps extraction output meaningful.
func attrValue(n *html.Node, name string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == name {
			v := strings.TrimSpace(attr.Val)
			return v, v != ""
		}
	}
	return "", false
}
