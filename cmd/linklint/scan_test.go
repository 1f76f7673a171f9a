package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/linklint/internal/config"
)

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan [site-root]" {
			t.Errorf("expected use 'scan [site-root]', got %q", cmd.Use)
		}
	})

	t.Run("has validation flags with defaults", func(t *testing.T) {
		t.Parallel()

		for _, tc := range []struct {
			name     string
			defValue string
		}{
			{"timeout", config.DefaultTimeout.String()},
			{"retries", "2"},
			{"retry-backoff", config.DefaultRetryBackoff.String()},
			{"concurrency", "10"},
			{"report-dir", config.DefaultReportDir},
			{"strict", "false"},
			{"no-history", "false"},
		} {
			flag := cmd.Flags().Lookup(tc.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tc.name)
			}
			if flag.DefValue != tc.defValue {
				t.Errorf("%s default = %q, want %q", tc.name, flag.DefValue, tc.defValue)
			}
		}
	})

	t.Run("has config file flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("config") == nil {
			t.Error("expected config flag")
		}
		if cmd.Flags().Lookup("site") == nil {
			t.Error("expected site flag")
		}
	})
}

// TestBaseScheme tests scheme extraction from the base URL.
func TestBaseScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"empty defaults to https", "", "https"},
		{"https base", "https://example.com", "https"},
		{"http base", "http://example.com", "http"},
		{"schemeless defaults to https", "example.com", "https"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := baseScheme(tt.baseURL); got != tt.want {
				t.Errorf("baseScheme(%q) = %q, want %q", tt.baseURL, got, tt.want)
			}
		})
	}
}

// TestBuildConfig tests flag and config file precedence.
func TestBuildConfig(t *testing.T) {
	t.Run("uses defaults without flags or file", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if cfg.Root != config.DefaultRoot {
			t.Errorf("Root = %q, want %q", cfg.Root, config.DefaultRoot)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", cfg.Timeout, config.DefaultTimeout)
		}
		if !cfg.SaveToDB {
			t.Error("SaveToDB should default to true")
		}
	})

	t.Run("positional argument overrides root", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"dist"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.Root != "dist" {
			t.Errorf("Root = %q, want %q", cfg.Root, "dist")
		}
	})

	t.Run("explicit flags override config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".linklint")
		content := `
defaults:
  timeout: 30s
  concurrency: 4
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath, "-t", "5s"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if cfg.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s (flag should win over file)", cfg.Timeout)
		}
		if cfg.Concurrency != 4 {
			t.Errorf("Concurrency = %d, want 4 (from file)", cfg.Concurrency)
		}
	})

	t.Run("site entry overrides file defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".linklint")
		content := `
defaults:
  root: public
  concurrency: 4
sites:
  blog.example.com:
    root: dist/blog
    baseURL: https://blog.example.com
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath, "-s", "blog.example.com"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if cfg.Root != "dist/blog" {
			t.Errorf("Root = %q, want %q", cfg.Root, "dist/blog")
		}
		if cfg.BaseURL != "https://blog.example.com" {
			t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "https://blog.example.com")
		}
		if cfg.Concurrency != 4 {
			t.Errorf("Concurrency = %d, want 4 (from file defaults)", cfg.Concurrency)
		}
	})

	t.Run("fails for unknown site", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".linklint")
		if err := os.WriteFile(configPath, []byte("defaults:\n  root: public\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath, "-s", "nosuch"}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd, nil); err == nil {
			t.Fatal("buildConfig() should fail for an unknown site")
		}
	})

	t.Run("fails for missing explicit config file", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"-c", filepath.Join(t.TempDir(), "nosuch.yaml")}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd, nil); err == nil {
			t.Fatal("buildConfig() should fail for a missing explicit config file")
		}
	})
}

// TestScanCommandEndToEnd runs the scan command against a small
// fixture site with local links only.
func TestScanCommandEndToEnd(t *testing.T) {
	writeFixture := func(t *testing.T) (root string) {
		t.Helper()

		root = filepath.Join(t.TempDir(), "public")
		if err := os.MkdirAll(filepath.Join(root, "blog"), 0750); err != nil {
			t.Fatal(err)
		}

		index := `<html><body>
<a href="/blog/post.html">post</a>
<a href="/missing.html">missing</a>
<a href="#top">top</a>
</body></html>`
		if err := os.WriteFile(filepath.Join(root, "index.html"), []byte(index), 0600); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(root, "blog", "post.html"), []byte("<html><body>post</body></html>"), 0600); err != nil {
			t.Fatal(err)
		}
		return root
	}

	t.Run("reports broken links and writes artifacts", func(t *testing.T) {
		root := writeFixture(t)
		reportDir := filepath.Join(t.TempDir(), "reports")

		cmd := NewRootCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs([]string{"scan", root, "-o", reportDir, "--no-history"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "BROKEN LINKS (1)") {
			t.Errorf("output missing broken section: %q", out)
		}
		if !strings.Contains(out, "/missing.html") {
			t.Errorf("output missing broken URL: %q", out)
		}
		if !strings.Contains(out, "Success:  50.00%") {
			t.Errorf("output missing success rate: %q", out)
		}

		for _, name := range []string{"latest.json", "latest.md"} {
			if _, err := os.Stat(filepath.Join(reportDir, name)); err != nil {
				t.Errorf("expected artifact %s: %v", name, err)
			}
		}
	})

	t.Run("strict mode fails on broken links", func(t *testing.T) {
		root := writeFixture(t)

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"scan", root, "-o", filepath.Join(t.TempDir(), "r"), "--no-history", "--strict"})

		if err := cmd.Execute(); err == nil {
			t.Fatal("expected strict mode to fail when broken links exist")
		}
	})

	t.Run("fails for missing root directory", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"scan", filepath.Join(t.TempDir(), "nosuch"), "--no-history"})

		if err := cmd.Execute(); err == nil {
			t.Fatal("expected error for a missing site root")
		}
	})
}
