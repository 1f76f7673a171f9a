package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/linklint/internal/checker"
	"github.com/nao1215/linklint/internal/crawler"
	"github.com/nao1215/linklint/internal/model"
)

// DiscoverStep lists the HTML files under the crawl root.
// A missing or unreadable root is fatal: nothing has been processed
// yet and the rest of the run has no input.
type DiscoverStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// NewDiscoverStep creates the discovery step.
func NewDiscoverStep(logger *slog.Logger) *DiscoverStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoverStep{logger: logger}
}

// Name returns the step name for logging.
func (s *DiscoverStep) Name() string { return "discover" }

// Do fills the crawl's file list.
func (s *DiscoverStep) Do(_ context.Context, crawl *Crawl) error {
	files, err := crawler.DiscoverHTML(crawl.Root)
	if err != nil {
		return err
	}

	crawl.Files = files
	s.logger.Debug("discovered files", "count", len(files), "root", crawl.Root)
	fmt.Fprintf(crawl.Progress, "Found %d HTML files under %s\n", len(files), crawl.Root)
	return nil
}

// ExtractStep parses every discovered file and classifies its
// references. Skipped references are dropped here; everything else
// becomes a pending link carrying its encounter index.
//
// A file that cannot be read or parsed is recorded as a per-file error
// and the step continues with the next file.
type ExtractStep struct {
	// parser extracts references from one document.
	parser *crawler.Parser

	// logger for structured logging.
	logger *slog.Logger
}

// NewExtractStep creates the extraction step.
func NewExtractStep(logger *slog.Logger) *ExtractStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStep{
		parser: crawler.NewParser(),
		logger: logger,
	}
}

// Name returns the step name for logging.
func (s *ExtractStep) Name() string { return "extract" }

// Do fills the crawl's pending link list in encounter order.
func (s *ExtractStep) Do(ctx context.Context, crawl *Crawl) error {
	for _, file := range crawl.Files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel := crawl.relPath(file)

		refs, err := s.extractFile(file)
		if err != nil {
			s.logger.Warn("failed to parse file", "file", rel, "error", err)
			crawl.Result.AddFileError(rel, err)
			continue
		}

		crawl.Result.FilesScanned++

		for _, ref := range refs {
			disposition := checker.Classify(ref.URL)
			if disposition == checker.DispositionSkip {
				continue
			}
			crawl.Pending = append(crawl.Pending, PendingLink{
				Index:       len(crawl.Pending),
				URL:         ref.URL,
				Kind:        ref.Kind,
				Disposition: disposition,
				SourceFile:  file,
				SourceRel:   rel,
			})
		}
	}

	s.logger.Debug("extracted references",
		"files", crawl.Result.FilesScanned,
		"pending", len(crawl.Pending),
		"fileErrors", len(crawl.Result.FileErrors),
	)
	fmt.Fprintf(crawl.Progress, "Extracted %d references from %d files\n",
		len(crawl.Pending), crawl.Result.FilesScanned)
	return nil
}

// extractFile opens and parses one document.
func (s *ExtractStep) extractFile(path string) ([]crawler.Reference, error) {
	f, err := os.Open(path) //nolint:gosec // Paths come from walking the user-supplied root
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.parser.Parse(f)
}

// ValidateStep resolves every pending link and assembles the ordered
// run result.
//
// Validation fans out on a bounded errgroup. Each pending link already
// carries its encounter index, and outcomes are written to a slice by
// that index, so the assembled record order is independent of probe
// completion order. The crawl cache gates duplicates: one validation
// per distinct raw URL string, concurrent encounters wait for the
// first.
type ValidateStep struct {
	// local checks references inside the output tree.
	local *checker.LocalResolver

	// external probes remote URLs.
	external *checker.ExternalValidator

	// concurrency bounds the number of in-flight validations.
	concurrency int

	// logger for structured logging.
	logger *slog.Logger
}

// NewValidateStep creates the validation step. The resolver and
// validator are built by the caller so client configuration stays in
// one place.
func NewValidateStep(local *checker.LocalResolver, external *checker.ExternalValidator, concurrency int, logger *slog.Logger) *ValidateStep {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateStep{
		local:       local,
		external:    external,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Name returns the step name for logging.
func (s *ValidateStep) Name() string { return "validate" }

// Do validates all pending links and appends their records in
// encounter order.
func (s *ValidateStep) Do(ctx context.Context, crawl *Crawl) error {
	outcomes := make([]model.ValidationOutcome, len(crawl.Pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, link := range crawl.Pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[link.Index] = crawl.Cache.GetOrValidate(link.URL, func() model.ValidationOutcome {
				return s.validate(gctx, link)
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Join: records are appended strictly in encounter order.
	for _, link := range crawl.Pending {
		outcome := outcomes[link.Index]
		crawl.Result.Append(model.LinkRecord{
			URL:        link.URL,
			SourceFile: link.SourceRel,
			Kind:       link.Kind,
			Status:     outcome.Status,
			StatusCode: outcome.StatusCode,
			Error:      outcome.Error,
			Timestamp:  time.Now(),
		})
	}

	crawl.Result.FinishedAt = time.Now()

	s.logger.Debug("validation complete",
		"total", crawl.Result.Total,
		"valid", crawl.Result.Valid,
		"broken", crawl.Result.Broken,
		"warnings", crawl.Result.Warnings,
		"distinctURLs", crawl.Cache.Len(),
	)
	fmt.Fprintf(crawl.Progress, "Validated %d links (%d distinct URLs)\n",
		crawl.Result.Total, crawl.Cache.Len())
	return nil
}

// validate dispatches one link to the matching resolver.
func (s *ValidateStep) validate(ctx context.Context, link PendingLink) model.ValidationOutcome {
	switch link.Disposition {
	case checker.DispositionExternal:
		s.logger.Debug("probing", "url", link.URL, "source", link.SourceRel)
		return s.external.Validate(ctx, link.URL)
	default:
		return s.local.Resolve(link.URL, link.SourceFile)
	}
}
