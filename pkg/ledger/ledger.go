// Package ledger records, per overlay, slide and ring identity, the last
// version a user has seen, and answers whether content should be shown
// again.
//
// All implementations share the same failure posture: storage that cannot
// be read makes everything look new (content is re-shown rather than
// silently suppressed), and writes are best-effort. Callers never see
// storage errors.
package ledger

import (
	"strings"

	"github.com/ringmask/ringmask/pkg/version"
)

// Key addresses one record. Overlay is always set; Slide scopes a slide
// record beneath the overlay and Ring scopes a ring record beneath the
// slide. Each key is independent of its siblings.
type Key struct {
	Overlay string
	Slide   string
	Ring    string
}

// String joins the populated parts with '/'.
func (k Key) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{k.Overlay, k.Slide, k.Ring} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// Ledger is the persistence capability consulted by overlays.
type Ledger interface {
	// IsNew reports whether no version has been recorded for key. An
	// unreadable backing store also answers true.
	IsNew(key Key) bool

	// IsNewRelativeTo reports whether key has no record, or v is strictly
	// newer than the recorded version. A version bump re-shows content
	// that was already seen.
	IsNewRelativeTo(key Key, v version.Version) bool

	// Register durably records v as the last seen version for key,
	// creating intermediate storage as needed. Sibling keys are left
	// intact. Failures are logged and swallowed; an overlay that fails to
	// persist simply shows again next time.
	Register(key Key, v version.Version)

	// Unregister removes the record so future IsNew calls answer true.
	Unregister(key Key)
}
