package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/linklint/internal/model"
)

// Artifact file name parts. Each run writes a timestamped pair and
// refreshes the latest aliases.
const (
	// artifactPrefix starts every timestamped artifact name.
	artifactPrefix = "link-report-"

	// timestampLayout names artifacts sortably: 20260115-150405.
	timestampLayout = "20060102-150405"

	// LatestJSON is the fixed alias of the newest JSON snapshot.
	LatestJSON = "latest.json"

	// LatestMarkdown is the fixed alias of the newest Markdown report.
	LatestMarkdown = "latest.md"
)

// Artifacts writes a run's report files.
type Artifacts struct {
	// dir is the reports directory, created on demand.
	dir string

	// version is recorded in JSON snapshots.
	version string
}

// NewArtifacts creates an artifact writer for the given directory.
func NewArtifacts(dir, version string) *Artifacts {
	return &Artifacts{dir: dir, version: version}
}

// WriteAll writes the timestamped JSON and Markdown artifacts plus the
// latest.json and latest.md aliases. It returns the paths of the two
// timestamped files.
//
// Any write failure is returned as-is: report-writing errors are fatal
// to the run because the run's value is its output.
func (a *Artifacts) WriteAll(result *model.RunResult) (jsonPath, mdPath string, err error) {
	if err := os.MkdirAll(a.dir, 0750); err != nil {
		return "", "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	stamp := result.FinishedAt.Format(timestampLayout)

	newJSON := func(f io.Writer) Writer {
		return NewJSONWriter(f, WithPrettyPrint(), WithVersion(a.version))
	}
	newMarkdown := func(f io.Writer) Writer {
		return NewMarkdownWriter(f)
	}

	jsonPath = filepath.Join(a.dir, artifactPrefix+stamp+".json")
	if err := a.writeFile(jsonPath, newJSON, result); err != nil {
		return "", "", err
	}

	mdPath = filepath.Join(a.dir, artifactPrefix+stamp+".md")
	if err := a.writeFile(mdPath, newMarkdown, result); err != nil {
		return "", "", err
	}

	// The aliases always mirror the newest run.
	if err := a.writeFile(filepath.Join(a.dir, LatestJSON), newJSON, result); err != nil {
		return "", "", err
	}
	if err := a.writeFile(filepath.Join(a.dir, LatestMarkdown), newMarkdown, result); err != nil {
		return "", "", err
	}

	return jsonPath, mdPath, nil
}

// writeFile writes one artifact through a writer built over the
// artifact file.
func (a *Artifacts) writeFile(path string, newWriter func(io.Writer) Writer, result *model.RunResult) error {
	f, err := os.Create(path) //nolint:gosec // Reports directory is user-configured
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}

	if _, err := newWriter(f).Write(result); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finalize report %s: %w", path, err)
	}
	return nil
}
