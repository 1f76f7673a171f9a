package checker

import "strings"

// Disposition is the classification of one raw reference string. It
// selects the resolution strategy before any resolver runs.
type Disposition int

const (
	// DispositionSkip marks references that are never validated:
	// in-page fragments and non-HTTP schemes such as javascript:,
	// mailto:, and tel:. Skipped references produce no link record and
	// do not affect counters.
	DispositionSkip Disposition = iota

	// DispositionLocalRelative marks references resolved against the
	// directory of the source file ("./x", "../x", "x/y.html").
	DispositionLocalRelative

	// DispositionLocalAbsolute marks references with a single leading
	// slash, resolved against the site root.
	DispositionLocalAbsolute

	// DispositionExternal marks http://, https://, and
	// protocol-relative references, validated over the network.
	DispositionExternal
)

// String returns a short name for logging.
func (d Disposition) String() string {
	switch d {
	case DispositionSkip:
		return "skip"
	case DispositionLocalRelative:
		return "local-relative"
	case DispositionLocalAbsolute:
		return "local-absolute"
	case DispositionExternal:
		return "external"
	default:
		return "unknown"
	}
}

// skipPrefixes are the reference schemes and markers that exempt a
// reference from validation.
var skipPrefixes = []string{"#", "javascript:", "mailto:", "tel:"}

// Classify decides the disposition of a raw reference string.
//
// Protocol-relative references ("//host/path") are classified external.
// The "//" test must run before the single-slash one: treating the
// host name as a directory under the site root would make every such
// reference a broken file.
func Classify(raw string) Disposition {
	if raw == "" {
		return DispositionSkip
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return DispositionSkip
		}
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return DispositionExternal
	}
	if strings.HasPrefix(raw, "//") {
		return DispositionExternal
	}
	if strings.HasPrefix(raw, "/") {
		return DispositionLocalAbsolute
	}
	return DispositionLocalRelative
}
