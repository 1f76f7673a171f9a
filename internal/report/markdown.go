package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/linklint/internal/model"
)

// MarkdownWriter outputs run results in GitHub Flavored Markdown.
// This format is designed for sharing and for CI artifacts.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation: type-safe tables, alerts, and mermaid chart
// support without hand-assembled strings.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run result as a Markdown document.
func (w *MarkdownWriter) Write(result *model.RunResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writeBrokenSection(md, result)
	w.writeWarningSection(md, result)
	w.writeFileErrors(md, result)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.RunResult) {
	md.H1("Link Check Report")
	md.PlainText("")

	rows := [][]string{
		{"Site Root", "`" + result.Root + "`"},
		{"Finished", result.FinishedAt.Format("2006-01-02 15:04:05 MST")},
		{"Files Scanned", strconv.Itoa(result.FilesScanned)},
		{"Success Rate", result.SuccessRate()},
	}
	if result.BaseURL != "" {
		rows = append(rows[:1], append([][]string{{"Base URL", result.BaseURL}}, rows[1:]...)...)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the status summary table, pie chart, and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.RunResult) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"✅ Valid", strconv.Itoa(result.Valid)},
			{"❌ Broken", strconv.Itoa(result.Broken)},
			{"⚠️ Warnings", strconv.Itoa(result.Warnings)},
			{"**Total**", "**" + strconv.Itoa(result.Total) + "**"},
		},
	})
	md.PlainText("")

	if result.Total > 0 {
		w.writePieChart(md, result)
	}

	w.writeAlert(md, result)
}

// writePieChart writes a mermaid pie chart of the status split.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *model.RunResult) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Link Status Distribution"),
		piechart.WithShowData(true),
	)

	if result.Valid > 0 {
		chart.LabelAndIntValue("Valid", uint64(result.Valid))
	}
	if result.Broken > 0 {
		chart.LabelAndIntValue("Broken", uint64(result.Broken))
	}
	if result.Warnings > 0 {
		chart.LabelAndIntValue("Warnings", uint64(result.Warnings))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.RunResult) {
	switch {
	case result.Broken > 0:
		md.Cautionf("%d broken link(s) found. Readers following them hit dead ends.", result.Broken)
	case result.Warnings > 0:
		md.Warningf("%d link(s) returned server errors or timed out. They may recover; re-check before acting.", result.Warnings)
	case result.Total > 0:
		md.Tip("All links are valid.")
	default:
		md.Note("No links were found to check.")
	}
	md.PlainText("")
}

// writeBrokenSection writes the broken link listing.
func (w *MarkdownWriter) writeBrokenSection(md *markdown.Markdown, result *model.RunResult) {
	md.H2("Broken Links")
	md.PlainText("")

	broken := result.BrokenLinks()
	if len(broken) == 0 {
		md.PlainText("None.")
		md.PlainText("")
		return
	}

	w.writeLinkTable(md, broken)
}

// writeWarningSection writes the warning link listing.
func (w *MarkdownWriter) writeWarningSection(md *markdown.Markdown, result *model.RunResult) {
	md.H2("Warnings")
	md.PlainText("")

	warnings := result.WarningLinks()
	if len(warnings) == 0 {
		md.PlainText("None.")
		md.PlainText("")
		return
	}

	w.writeLinkTable(md, warnings)
}

// writeLinkTable writes one table of link records.
func (w *MarkdownWriter) writeLinkTable(md *markdown.Markdown, records []model.LinkRecord) {
	rows := make([][]string, len(records))
	for i, rec := range records {
		code := "-"
		if rec.StatusCode != 0 {
			code = strconv.Itoa(rec.StatusCode)
		}
		errText := rec.Error
		if errText == "" {
			errText = "-"
		}
		rows[i] = []string{
			"`" + rec.URL + "`",
			rec.SourceFile,
			string(rec.Kind),
			code,
			errText,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Source File", "Kind", "Code", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFileErrors writes the per-file parse failure listing, if any.
func (w *MarkdownWriter) writeFileErrors(md *markdown.Markdown, result *model.RunResult) {
	if len(result.FileErrors) == 0 {
		return
	}

	md.H2("File Errors")
	md.PlainText("")

	rows := make([][]string, len(result.FileErrors))
	for i, fe := range result.FileErrors {
		rows[i] = []string{fe.File, fe.Error}
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}
