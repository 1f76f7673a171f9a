package model

import (
	"fmt"
	"time"
)

// FileError records a document that could not be read or parsed.
// A file error is local to that file: the run continues with the next
// document and no link records are produced for the failed file.
type FileError struct {
	// File is the path of the failed document, relative to the site root.
	File string `json:"file"`

	// Error is the read or parse failure description.
	Error string `json:"error"`
}

// RunResult accumulates the outcome of one complete crawl.
// It owns the ordered list of link records and the summary counters.
//
// Design decision: counters are maintained alongside the record list
// rather than recomputed on demand because the invariant
// Total == Valid + Broken + Warnings == len(Links) is part of the
// contract and keeping both makes violations testable.
type RunResult struct {
	// Root is the site output directory that was crawled.
	Root string `json:"root"`

	// BaseURL is the configured public URL of the site, recorded for
	// context. It does not influence local resolution.
	BaseURL string `json:"base_url,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Total is the number of validated references.
	Total int `json:"total"`

	// Valid, Broken, and Warnings partition Total by final status.
	// StatusError records count toward Broken.
	Valid    int `json:"valid"`
	Broken   int `json:"broken"`
	Warnings int `json:"warnings"`

	// FilesScanned is the number of HTML documents processed.
	FilesScanned int `json:"files_scanned"`

	// Links holds one record per non-skipped reference, ordered by
	// source file in discovery order and by document order within a
	// file.
	Links []LinkRecord `json:"links"`

	// FileErrors lists documents that failed to read or parse.
	FileErrors []FileError `json:"file_errors,omitempty"`
}

// NewRunResult creates an empty result for a crawl of root.
func NewRunResult(root, baseURL string) *RunResult {
	return &RunResult{
		Root:      root,
		BaseURL:   baseURL,
		StartedAt: time.Now(),
		Links:     make([]LinkRecord, 0),
	}
}

// Append adds a record and updates the counters by its final status.
// Each record must be appended exactly once.
func (r *RunResult) Append(rec LinkRecord) {
	r.Links = append(r.Links, rec)
	r.Total++

	switch rec.Status {
	case StatusValid:
		r.Valid++
	case StatusWarning:
		r.Warnings++
	case StatusBroken, StatusError:
		// Error records are exceptional failures; they count as broken.
		r.Broken++
	}
}

// AddFileError records a per-file read or parse failure.
func (r *RunResult) AddFileError(file string, err error) {
	r.FileErrors = append(r.FileErrors, FileError{File: file, Error: err.Error()})
}

// SuccessRate returns Valid/Total formatted as a percentage with two
// decimal places, e.g. "75.00%". When the run validated nothing the
// rate is undefined and "N/A" is returned instead of a NaN rendering.
func (r *RunResult) SuccessRate() string {
	if r.Total == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", float64(r.Valid)/float64(r.Total)*100)
}

// BrokenLinks returns the records with status broken or error, in
// encounter order.
func (r *RunResult) BrokenLinks() []LinkRecord {
	return r.filter(func(rec LinkRecord) bool {
		return rec.Status == StatusBroken || rec.Status == StatusError
	})
}

// WarningLinks returns the records with status warning, in encounter
// order.
func (r *RunResult) WarningLinks() []LinkRecord {
	return r.filter(func(rec LinkRecord) bool {
		return rec.Status == StatusWarning
	})
}

// filter returns the records matching keep, preserving order.
func (r *RunResult) filter(keep func(LinkRecord) bool) []LinkRecord {
	var out []LinkRecord
	for _, rec := range r.Links {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Summary is a curated, serializable view of a run result for human
// output and for the run-history database.
//
// Design decision: We keep a separate summary type rather than printing
// parts of RunResult directly because it separates presentation from
// accumulation and gives the database a compact row shape.
type Summary struct {
	// Root is the crawled site output directory.
	Root string `json:"root"`

	// FinishedAt is when the run completed.
	FinishedAt time.Time `json:"finished_at"`

	// Total, Valid, Broken, Warnings mirror the run counters.
	Total    int `json:"total"`
	Valid    int `json:"valid"`
	Broken   int `json:"broken"`
	Warnings int `json:"warnings"`

	// FilesScanned is the number of HTML documents processed.
	FilesScanned int `json:"files_scanned"`

	// FileErrors is the number of documents that failed to parse.
	FileErrors int `json:"file_errors"`

	// SuccessRate is the pre-rendered percentage ("75.00%" or "N/A").
	SuccessRate string `json:"success_rate"`
}

// NewSummary derives a Summary from a finished run result.
func NewSummary(r *RunResult) Summary {
	return Summary{
		Root:         r.Root,
		FinishedAt:   r.FinishedAt,
		Total:        r.Total,
		Valid:        r.Valid,
		Broken:       r.Broken,
		Warnings:     r.Warnings,
		FilesScanned: r.FilesScanned,
		FileErrors:   len(r.FileErrors),
		SuccessRate:  r.SuccessRate(),
	}
}
