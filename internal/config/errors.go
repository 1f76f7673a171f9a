package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate() and describe exactly what is
// wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to
// use errors.Is() for programmatic handling while still providing
// human-readable messages.
var (
	// ErrNoRoot is returned when no site root directory is configured.
	ErrNoRoot = errors.New("no site root specified: provide a directory to crawl")

	// ErrInvalidTimeout is returned when the network timeout is not
	// positive. A zero or negative timeout would fail every probe
	// immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxRetries is returned when the retry count is negative.
	// Use 0 to disable retrying.
	ErrInvalidMaxRetries = errors.New("invalid max retries: must be non-negative")

	// ErrInvalidConcurrency is returned when the worker limit is not
	// positive. Zero workers would mean no external validation at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidRetryBackoff is returned when the retry backoff is
	// negative. Use 0 for immediate retries.
	ErrInvalidRetryBackoff = errors.New("invalid retry backoff: must be non-negative")

	// ErrNoReportDir is returned when the report directory is empty.
	// The run's value is its artifacts, so a destination is required.
	ErrNoReportDir = errors.New("no report directory specified")
)
