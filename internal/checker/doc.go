// Package checker classifies extracted references and validates them.
//
// # Components
//
//   - Classify: decides whether a reference is skipped, local, or external
//   - LocalResolver: maps local references to filesystem paths and checks
//     existence
//   - ExternalValidator: probes remote URLs with a HEAD request and maps
//     the outcome to a status
//   - Cache: deduplicates validation work per raw URL string across a run
//     and gates concurrent duplicate probes
//
// Validation outcomes are keyed by the raw reference string exactly as
// it appeared in the document. Two spellings of the same target ("/a/"
// and "/a/index.html") are validated independently; normalizing would
// hide authoring inconsistencies the report exists to surface.
package checker
