// Package model defines the data structures shared across linklint.
// It contains the link record produced for every validated reference,
// the cacheable validation outcome, and the run result that reports
// are generated from.
package model
