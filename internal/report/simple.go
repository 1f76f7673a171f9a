package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/linklint/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and pipes cleanly to
// files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose additionally lists every valid link, not just problems.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables listing of valid links as well.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given
// writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run result in human-readable form.
func (w *SimpleWriter) Write(result *model.RunResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeSummary(&sb, result)
	w.writeBroken(&sb, result)
	w.writeWarnings(&sb, result)
	w.writeFileErrors(&sb, result)
	if w.verbose {
		w.writeValid(&sb, result)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report banner with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.RunResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        LINK CHECK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Site Root:     %s\n", result.Root)
	if result.BaseURL != "" {
		fmt.Fprintf(sb, "Base URL:      %s\n", result.BaseURL)
	}
	fmt.Fprintf(sb, "Finished:      %s\n", result.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Files Scanned: %d\n", result.FilesScanned)
	sb.WriteString("\n")
}

// writeSummary writes the counter block.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, result *model.RunResult) {
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  Total:    %d\n", result.Total)
	fmt.Fprintf(sb, "  Valid:    %d\n", result.Valid)
	fmt.Fprintf(sb, "  Broken:   %d\n", result.Broken)
	fmt.Fprintf(sb, "  Warnings: %d\n", result.Warnings)
	fmt.Fprintf(sb, "  Success:  %s\n", result.SuccessRate())
	sb.WriteString("\n")
}

// writeBroken enumerates broken links by URL and source file for
// quick triage.
func (w *SimpleWriter) writeBroken(sb *strings.Builder, result *model.RunResult) {
	broken := result.BrokenLinks()
	if len(broken) == 0 {
		return
	}

	fmt.Fprintf(sb, "BROKEN LINKS (%d)\n", len(broken))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, rec := range broken {
		w.writeRecord(sb, rec)
	}
	sb.WriteString("\n")
}

// writeWarnings enumerates warning links.
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, result *model.RunResult) {
	warnings := result.WarningLinks()
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintf(sb, "WARNINGS (%d)\n", len(warnings))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, rec := range warnings {
		w.writeRecord(sb, rec)
	}
	sb.WriteString("\n")
}

// writeFileErrors lists documents that failed to parse.
func (w *SimpleWriter) writeFileErrors(sb *strings.Builder, result *model.RunResult) {
	if len(result.FileErrors) == 0 {
		return
	}

	fmt.Fprintf(sb, "FILE ERRORS (%d)\n", len(result.FileErrors))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, fe := range result.FileErrors {
		fmt.Fprintf(sb, "  %s\n    %s\n", fe.File, fe.Error)
	}
	sb.WriteString("\n")
}

// writeValid lists every valid link, verbose mode only.
func (w *SimpleWriter) writeValid(sb *strings.Builder, result *model.RunResult) {
	sb.WriteString("VALID LINKS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, rec := range result.Links {
		if rec.Status == model.StatusValid {
			fmt.Fprintf(sb, "  %s (in %s)\n", rec.URL, rec.SourceFile)
		}
	}
	sb.WriteString("\n")
}

// writeRecord writes one problem link with its details.
func (w *SimpleWriter) writeRecord(sb *strings.Builder, rec model.LinkRecord) {
	fmt.Fprintf(sb, "  %s\n", rec.URL)
	fmt.Fprintf(sb, "    in:    %s (%s)\n", rec.SourceFile, rec.Kind)
	if rec.StatusCode != 0 {
		fmt.Fprintf(sb, "    code:  %d\n", rec.StatusCode)
	}
	if rec.Error != "" {
		fmt.Fprintf(sb, "    error: %s\n", rec.Error)
	}
}
