// Package pipeline orchestrates one linklint run.
//
// # Architecture
//
// A run is a sequence of steps executed against a run-scoped Crawl
// object: discover the HTML files, extract and classify their
// references, validate every pending reference, then assemble the
// ordered run result. The Crawl carries all mutable state (the result
// cache, the pending reference list, the accumulating counters) so
// multiple crawls can run in one process without interference.
//
// # Ordering
//
// External validations run concurrently on a bounded errgroup, but
// every reference is assigned its encounter index before fan-out and
// outcomes are joined back by that index. Report order is therefore
// files in discovery order and references in document order, no matter
// when each probe completes.
//
// # Components
//
//   - Pipeline: executes steps in sequence with logging and cancellation
//   - Crawl: the per-run state threaded through steps
//   - DiscoverStep, ExtractStep, ValidateStep: the run's three phases
package pipeline
