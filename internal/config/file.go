package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a YAML-friendly wrapper around time.Duration.
// It accepts either a Go duration string ("10s", "1m30s") or a bare
// integer, which is interpreted as milliseconds. Existing config files
// in the wild use the bare-millisecond form for timeouts.
type Duration time.Duration

// Duration returns the wrapped time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	// Bare integers are milliseconds.
	if ms, err := strconv.Atoi(raw); err == nil {
		if ms < 0 {
			return fmt.Errorf("negative duration: %d", ms)
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration: %s", raw)
	}
	*d = Duration(parsed)
	return nil
}

// SiteConfig holds per-site configuration overrides.
// Sites are named entries in the config file; a site's settings take
// precedence over Defaults, which take precedence over built-in
// defaults. CLI flags always win over the file.
type SiteConfig struct {
	// Root is the site output directory to crawl.
	Root string `yaml:"root,omitempty"`

	// BaseURL is the public URL of the site.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Timeout bounds each external HEAD probe. Accepts "10s" or a bare
	// millisecond count.
	Timeout Duration `yaml:"timeout,omitempty"`

	// MaxRetries overrides the retry count. A pointer distinguishes
	// "not set" from an explicit zero (retries disabled).
	MaxRetries *int `yaml:"maxRetries,omitempty"`

	// Concurrency overrides the external validation worker limit.
	Concurrency int `yaml:"concurrency,omitempty"`

	// ReportDir overrides the artifact output directory.
	ReportDir string `yaml:"reportDir,omitempty"`
}

// File represents the structure of the .linklint configuration file.
type File struct {
	// Sites maps site names to their specific configurations. The name
	// is the scan command's --site argument, conventionally the site's
	// hostname.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains configuration applied to all sites unless
	// overridden in a site-specific entry.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for the named site, merging
// the site-specific entry over Defaults.
func (cf *File) GetSiteConfig(name string) SiteConfig {
	result := cf.Defaults

	if site, ok := cf.Sites[name]; ok {
		if site.Root != "" {
			result.Root = site.Root
		}
		if site.BaseURL != "" {
			result.BaseURL = site.BaseURL
		}
		if site.Timeout > 0 {
			result.Timeout = site.Timeout
		}
		if site.MaxRetries != nil {
			result.MaxRetries = site.MaxRetries
		}
		if site.Concurrency > 0 {
			result.Concurrency = site.Concurrency
		}
		if site.ReportDir != "" {
			result.ReportDir = site.ReportDir
		}
	}

	return result
}
