// Package report serializes a finished run result into artifacts.
//
// Three writers share one interface: JSONWriter produces the
// machine-readable snapshot, MarkdownWriter the human-readable document,
// and SimpleWriter the terminal summary. Artifacts ties them together:
// each run writes a timestamp-named JSON and Markdown pair under the
// reports directory and overwrites the latest.json / latest.md aliases.
//
// A failure writing artifacts is fatal to the run. The run's entire
// value is its output, so a half-written report is treated like no
// report at all.
package report
