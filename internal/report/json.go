package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/linklint/internal/model"
)

// JSONWriter outputs run results in JSON format.
// This format is designed for tool integration and programmatic
// processing of link check results.
//
// Design decision: We use standard encoding/json rather than a
// third-party JSON library because it is sufficient for our needs and
// behaves consistently across Go versions.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  ").
	indentString string

	// version is the linklint version recorded in the snapshot.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithVersion records the tool version in the snapshot metadata.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Snapshot is the serialized form of a run. It wraps the run result
// with generation metadata and the pre-rendered summary so consumers
// never recompute the success rate (and never see a NaN for an empty
// run).
type Snapshot struct {
	// Version is the linklint version that generated this snapshot.
	Version string `json:"version,omitempty"`

	// GeneratedAt is when the snapshot was serialized.
	GeneratedAt time.Time `json:"generated_at"`

	// Summary holds the counts and the rendered success rate.
	Summary model.Summary `json:"summary"`

	// Result is the full run result with the ordered record list.
	Result *model.RunResult `json:"result"`
}

// NewSnapshot wraps a run result for serialization.
func NewSnapshot(result *model.RunResult, version string) *Snapshot {
	return &Snapshot{
		Version:     version,
		GeneratedAt: time.Now(),
		Summary:     model.NewSummary(result),
		Result:      result,
	}
}

// Write outputs the run result as a JSON snapshot.
func (w *JSONWriter) Write(result *model.RunResult) (int, error) {
	snapshot := NewSnapshot(result, w.version)

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(snapshot, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(snapshot)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal friendliness.
	data = append(data, '\n')

	return w.output.Write(data)
}
