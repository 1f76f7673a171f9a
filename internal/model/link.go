package model

import (
	"fmt"
	"time"
)

// LinkKind identifies which HTML attribute a reference was extracted from.
//
// Design decision: We use string constants rather than iota-based integers
// because the kind appears verbatim in JSON reports and the database, and
// a self-describing value survives format changes better than a number.
type LinkKind string

const (
	// KindAnchor is an href attribute on an <a> element.
	KindAnchor LinkKind = "anchor"

	// KindImage is a src attribute on an <img> element.
	KindImage LinkKind = "image"

	// KindStylesheet is an href attribute on a <link rel="stylesheet"> element.
	KindStylesheet LinkKind = "stylesheet"

	// KindScript is a src attribute on a <script> element.
	KindScript LinkKind = "script"
)

// LinkStatus represents the validation result for a single reference.
//
// Design decision: We use iota-based constants for efficient comparison
// and counter dispatch. The String() method provides the stable names
// used in reports.
type LinkStatus int

const (
	// StatusValid indicates the reference resolved to an existing file or
	// a remote resource that answered with a success or redirect status.
	StatusValid LinkStatus = iota

	// StatusBroken indicates a missing local file, an HTTP client error
	// (4xx), or a transport failure such as a DNS error or refused
	// connection.
	StatusBroken

	// StatusWarning indicates an outcome that deserves attention but is
	// not definitively broken: an HTTP server error (5xx) or a request
	// timeout. The resource may recover on its own.
	StatusWarning

	// StatusError is reserved for failures outside the normal resolution
	// path, such as a panic recovered while validating. Records with this
	// status count toward the broken total.
	StatusError
)

// String returns the stable lowercase name used in reports.
func (s LinkStatus) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusBroken:
		return "broken"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its string name.
func (s LinkStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a status from its string name. Stored run
// results round-trip through JSON, so both directions must exist.
func (s *LinkStatus) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"valid"`:
		*s = StatusValid
	case `"broken"`:
		*s = StatusBroken
	case `"warning"`:
		*s = StatusWarning
	case `"error"`:
		*s = StatusError
	default:
		return fmt.Errorf("unknown link status %s", data)
	}
	return nil
}

// LinkRecord is the per-reference entry in a run result.
// One record is created for every non-skipped reference encountered,
// even when its validation outcome came from the cache. Records are
// immutable once appended to a RunResult.
type LinkRecord struct {
	// URL is the raw reference string as it appeared in the document.
	URL string `json:"url"`

	// SourceFile is the path of the referencing document, relative to
	// the site root.
	SourceFile string `json:"source_file"`

	// Kind identifies the HTML attribute the reference came from.
	Kind LinkKind `json:"kind"`

	// Status is the final validation status.
	Status LinkStatus `json:"status"`

	// StatusCode is the HTTP status code, or the conventional 200/404
	// for local references. Zero means no status code applies (e.g.
	// timeouts and transport errors).
	StatusCode int `json:"status_code,omitempty"`

	// Error is a human-readable description of the failure, empty for
	// valid references.
	Error string `json:"error,omitempty"`

	// Timestamp is when the record was created.
	Timestamp time.Time `json:"timestamp"`
}

// ValidationOutcome is the URL-keyed result of resolving one reference,
// independent of which file referenced it. It is the value stored in the
// run's result cache.
type ValidationOutcome struct {
	// Status is valid, broken, or warning. StatusError never appears in
	// a cached outcome; it is assigned by the aggregator when resolution
	// itself fails unexpectedly.
	Status LinkStatus `json:"status"`

	// StatusCode is the HTTP status code, zero when none applies.
	StatusCode int `json:"status_code,omitempty"`

	// Error is the failure description, empty for valid outcomes.
	Error string `json:"error,omitempty"`
}
