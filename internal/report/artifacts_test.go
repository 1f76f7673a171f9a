package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArtifactsWriteAll(t *testing.T) {
	t.Parallel()

	t.Run("writes timestamped pair and latest aliases", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "reports")
		a := NewArtifacts(dir, "1.2.3")

		jsonPath, mdPath, err := a.WriteAll(sampleResult(t))
		if err != nil {
			t.Fatalf("WriteAll() error = %v", err)
		}

		wantJSON := filepath.Join(dir, "link-report-20260314-093000.json")
		if jsonPath != wantJSON {
			t.Errorf("jsonPath = %q, want %q", jsonPath, wantJSON)
		}
		wantMD := filepath.Join(dir, "link-report-20260314-093000.md")
		if mdPath != wantMD {
			t.Errorf("mdPath = %q, want %q", mdPath, wantMD)
		}

		for _, path := range []string{
			jsonPath,
			mdPath,
			filepath.Join(dir, LatestJSON),
			filepath.Join(dir, LatestMarkdown),
		} {
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("artifact %s missing: %v", path, err)
			}
			if info.Size() == 0 {
				t.Errorf("artifact %s is empty", path)
			}
		}
	})

	t.Run("json artifact is a valid snapshot", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := NewArtifacts(dir, "1.2.3")

		jsonPath, _, err := a.WriteAll(sampleResult(t))
		if err != nil {
			t.Fatalf("WriteAll() error = %v", err)
		}

		data, err := os.ReadFile(jsonPath) //nolint:gosec // Test reads its own artifact
		if err != nil {
			t.Fatalf("failed to read artifact: %v", err)
		}

		var snapshot Snapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			t.Fatalf("artifact is not valid JSON: %v", err)
		}
		if snapshot.Version != "1.2.3" {
			t.Errorf("Version = %q, want %q", snapshot.Version, "1.2.3")
		}
		if snapshot.Summary.Total != 4 {
			t.Errorf("Summary.Total = %d, want 4", snapshot.Summary.Total)
		}
	})

	t.Run("latest aliases mirror the newest run", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := NewArtifacts(dir, "1.2.3")

		jsonPath, mdPath, err := a.WriteAll(sampleResult(t))
		if err != nil {
			t.Fatalf("WriteAll() error = %v", err)
		}

		for _, pair := range [][2]string{
			{jsonPath, filepath.Join(dir, LatestJSON)},
			{mdPath, filepath.Join(dir, LatestMarkdown)},
		} {
			stamped, err := os.ReadFile(pair[0]) //nolint:gosec // Test reads its own artifact
			if err != nil {
				t.Fatalf("failed to read %s: %v", pair[0], err)
			}
			latest, err := os.ReadFile(pair[1]) //nolint:gosec // Test reads its own artifact
			if err != nil {
				t.Fatalf("failed to read %s: %v", pair[1], err)
			}
			// GeneratedAt differs between the two JSON writes, so
			// compare everything but that line.
			if stripGeneratedAt(string(stamped)) != stripGeneratedAt(string(latest)) {
				t.Errorf("%s should mirror %s", pair[1], pair[0])
			}
		}
	})

	t.Run("fails when the directory cannot be created", func(t *testing.T) {
		t.Parallel()

		blocker := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}

		a := NewArtifacts(filepath.Join(blocker, "reports"), "1.2.3")
		if _, _, err := a.WriteAll(sampleResult(t)); err == nil {
			t.Fatal("WriteAll() should fail when the reports directory cannot be created")
		}
	})
}

// stripGeneratedAt drops the generated_at line so two serializations
// of the same run compare equal.
func stripGeneratedAt(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, "\"generated_at\"") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
