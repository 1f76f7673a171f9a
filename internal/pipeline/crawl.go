package pipeline

import (
	"io"
	"path/filepath"

	"github.com/nao1215/linklint/internal/checker"
	"github.com/nao1215/linklint/internal/model"
)

// Crawl is the state of one run, threaded through every pipeline step.
// It is created per run and never shared between runs; the embedded
// cache is the only state touched concurrently, and only during the
// validation step.
type Crawl struct {
	// Root is the absolute site output directory.
	Root string

	// Files is the discovered HTML file list, absolute paths in
	// discovery order. Populated by DiscoverStep.
	Files []string

	// Pending is every non-skipped reference in encounter order.
	// Populated by ExtractStep, consumed by ValidateStep.
	Pending []PendingLink

	// Result accumulates records and counters. Steps append to it;
	// after the last step it belongs to the report emitter.
	Result *model.RunResult

	// Cache deduplicates validation work per raw URL string.
	Cache *checker.Cache

	// Progress receives brief per-phase progress lines. Defaults to
	// io.Discard; the scan command points it at stdout.
	Progress io.Writer
}

// PendingLink is one classified reference waiting for validation.
// Index is its position in the final record list; outcomes are joined
// back by this index so completion order never reorders the report.
type PendingLink struct {
	// Index is the encounter position across the whole run.
	Index int

	// URL is the raw reference string.
	URL string

	// Kind is the extracting rule.
	Kind model.LinkKind

	// Disposition selects local or external validation.
	Disposition checker.Disposition

	// SourceFile is the absolute path of the referencing document.
	SourceFile string

	// SourceRel is SourceFile relative to the site root, as recorded
	// in the report.
	SourceRel string
}

// NewCrawl creates the state for one run over root.
func NewCrawl(root, baseURL string) *Crawl {
	abs, err := filepath.Abs(root)
	if err != nil {
		// Fall back to the given path; discovery will surface the
		// underlying problem as a DirectoryAccessError.
		abs = root
	}
	return &Crawl{
		Root:     abs,
		Result:   model.NewRunResult(abs, baseURL),
		Cache:    checker.NewCache(),
		Progress: io.Discard,
	}
}

// relPath returns path relative to the crawl root, falling back to the
// absolute path when it cannot be made relative.
func (c *Crawl) relPath(path string) string {
	rel, err := filepath.Rel(c.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
