package report

import (
	"io"

	"github.com/nao1215/linklint/internal/model"
)

// Writer defines the interface for report output.
// Implementations serialize a run result in a specific format.
//
// Design decision: We use an interface so the same run result can be
// written to files, stdout, or both with the same API, and so tests
// can target any writer uniformly.
type Writer interface {
	// Write outputs the run result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.RunResult) (int, error)
}

// MultiWriter writes a run result to multiple Writers.
// Useful for outputting to both terminal and file.
//
// Design decision: This is a separate type rather than io.MultiWriter
// because our Writer interface writes run results, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
// Returns the total bytes written; stops on the first error.
func (m *MultiWriter) Write(result *model.RunResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
