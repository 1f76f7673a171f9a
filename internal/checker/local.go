package checker

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/linklint/internal/model"
)

// FileNotFoundError is the error text recorded for a missing local
// target. Report consumers match on this exact string, so it must not
// change.
const FileNotFoundError = "File not found"

// LocalResolver checks references that point inside the crawled output
// tree. No network access is involved.
type LocalResolver struct {
	// root is the absolute site output directory. Local-absolute
	// references resolve against it.
	root string
}

// NewLocalResolver creates a resolver for the given site root.
func NewLocalResolver(root string) *LocalResolver {
	return &LocalResolver{root: root}
}

// Resolve maps a local reference to an absolute filesystem path and
// checks its existence. sourceFile is the absolute path of the document
// the reference appeared in; relative references resolve against its
// directory, absolute ones against the site root.
//
// Query strings and fragments are stripped first: "/page.html?v=2#top"
// targets the file "/page.html". A directory target counts as valid;
// static servers answer it with the directory index.
//
// An existing path yields valid with the conventional code 200. A
// missing path yields broken, code 404, error "File not found". Any
// other filesystem error yields broken with the underlying message and
// never aborts the run.
func (r *LocalResolver) Resolve(raw, sourceFile string) model.ValidationOutcome {
	path := stripQueryFragment(raw)

	var target string
	if strings.HasPrefix(path, "/") {
		target = filepath.Join(r.root, filepath.FromSlash(path))
	} else {
		target = filepath.Join(filepath.Dir(sourceFile), filepath.FromSlash(path))
	}

	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return model.ValidationOutcome{
				Status:     model.StatusBroken,
				StatusCode: http.StatusNotFound,
				Error:      FileNotFoundError,
			}
		}
		// Permission or path errors map to broken, not to a crash.
		return model.ValidationOutcome{
			Status:     model.StatusBroken,
			StatusCode: http.StatusNotFound,
			Error:      err.Error(),
		}
	}

	return model.ValidationOutcome{
		Status:     model.StatusValid,
		StatusCode: http.StatusOK,
	}
}

// stripQueryFragment removes the query string and fragment from a raw
// reference. The query is cut first so a "#" inside a query value does
// not truncate the path differently than a browser would.
func stripQueryFragment(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
