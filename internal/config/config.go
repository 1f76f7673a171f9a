package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Every one of these can be overridden
// by the config file or a CLI flag; flags always win.
const (
	// DefaultRoot is the site output directory checked when no root is
	// given. Static site generators conventionally emit into "public".
	DefaultRoot = "public"

	// DefaultTimeout bounds each external HEAD probe. 10 seconds is
	// generous enough for slow CDNs while keeping a run with many dead
	// hosts from hanging for minutes per link.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is how many times a timed-out or transport-failed
	// probe is retried before the outcome is recorded. HTTP status
	// responses are authoritative and never retried.
	DefaultMaxRetries = 2

	// DefaultRetryBackoff is the fixed pause between retries. Long
	// enough to ride out a transient blip, short enough that a run
	// full of flaky hosts still finishes.
	DefaultRetryBackoff = 500 * time.Millisecond

	// DefaultConcurrency is the bounded worker count for external
	// validations. Local file checks are cheap and stay on the caller's
	// goroutine.
	DefaultConcurrency = 10

	// DefaultReportDir is where run artifacts are written, relative to
	// the working directory unless overridden.
	DefaultReportDir = "reports"

	// DefaultUserAgent identifies linklint in HTTP requests. A
	// descriptive User-Agent lets operators recognize checker traffic
	// in their logs.
	DefaultUserAgent = "linklint/1.0 (+https://github.com/nao1215/linklint)"

	// AppName is the application name used for XDG directory paths.
	AppName = "linklint"
)

// Config holds all options for one linklint run.
// It is populated from CLI flags (and optionally a YAML file) and passed
// through the application by value injection rather than global state,
// so multiple crawls can run in one process without interference.
//
// Design decision: We use a single flat struct instead of nested
// sub-structs. The number of options is manageable, and nesting would
// add complexity without benefit.
type Config struct {
	// Root is the site output directory to crawl.
	Root string

	// BaseURL is the public URL of the site. It is recorded in reports
	// for context and supplies the scheme used for protocol-relative
	// references. It never affects local path resolution.
	BaseURL string

	// Timeout bounds each external HEAD request.
	Timeout time.Duration

	// MaxRetries is the number of retries for timed-out or
	// transport-failed probes. Zero disables retrying.
	MaxRetries int

	// RetryBackoff is the fixed pause between retries.
	RetryBackoff time.Duration

	// Concurrency is the maximum number of external validations in
	// flight at once.
	Concurrency int

	// UserAgent is the User-Agent header sent with HEAD probes.
	UserAgent string

	// ReportDir is the directory run artifacts are written to.
	ReportDir string

	// Verbose enables slog.LevelDebug output. When false, only warnings
	// and errors are logged.
	Verbose bool

	// Strict makes the scan command exit non-zero when broken links were
	// found. Intended for CI; a clean run always exits zero.
	Strict bool

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .linklint in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// DBDir is the directory for the run-history SQLite database.
	// When empty, run summaries are not persisted.
	DBDir string

	// SaveToDB indicates whether to persist run summaries. Set to true
	// automatically when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero
// values because most defaults are non-zero. It also documents what
// the defaults are.
func NewConfig() *Config {
	return &Config{
		Root:         DefaultRoot,
		Timeout:      DefaultTimeout,
		MaxRetries:   DefaultMaxRetries,
		RetryBackoff: DefaultRetryBackoff,
		Concurrency:  DefaultConcurrency,
		UserAgent:    DefaultUserAgent,
		ReportDir:    DefaultReportDir,
	}
}

// XDGDataDir returns the XDG data directory for linklint.
// On Linux: ~/.local/share/linklint
// On macOS: ~/Library/Application Support/linklint
// On Windows: %LOCALAPPDATA%\linklint
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for linklint.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found; fixing one error often makes
// later ones irrelevant. Called once after flag parsing, before any
// crawling begins.
func (c *Config) Validate() error {
	if c.Root == "" {
		return ErrNoRoot
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.RetryBackoff < 0 {
		return ErrInvalidRetryBackoff
	}

	if c.ReportDir == "" {
		return ErrNoReportDir
	}

	return nil
}

// ApplySite overlays the per-site overrides for the named site onto the
// flag-derived configuration. Flag values already set by the user are
// represented in c, so only non-zero override fields are applied.
func (c *Config) ApplySite(site SiteConfig) {
	if site.Root != "" {
		c.Root = site.Root
	}
	if site.BaseURL != "" {
		c.BaseURL = site.BaseURL
	}
	if site.Timeout > 0 {
		c.Timeout = site.Timeout.Duration()
	}
	if site.MaxRetries != nil {
		c.MaxRetries = *site.MaxRetries
	}
	if site.Concurrency > 0 {
		c.Concurrency = site.Concurrency
	}
	if site.ReportDir != "" {
		c.ReportDir = site.ReportDir
	}
}
