package overlay

import "github.com/ringmask/ringmask/pkg/version"

// Ring defines one highlighted page region: which region to cut out of
// the mask, which companion region inside the slide's content explains
// it, and a versioned identity deciding whether the user has seen it.
//
// A ring belongs to at most one slide at a time.
type Ring struct {
	// ID carries the ring's name and version; the look-and-feel rides
	// along as the identity's payload.
	ID version.Meta[LookAndFeel]

	// PageRegion references the region on the underlying page.
	PageRegion string

	// SlideRegion references the companion region inside the slide's
	// content. Empty means the ring has no companion and is always
	// eligible to show.
	SlideRegion string
}

// NewRing builds a ring for the given page region. slideRegion may be
// empty.
func NewRing(id version.Meta[LookAndFeel], pageRegion, slideRegion string) *Ring {
	return &Ring{ID: id, PageRegion: pageRegion, SlideRegion: slideRegion}
}

func (r *Ring) String() string {
	return r.ID.String()
}

// Version returns the ring's version identity.
func (r *Ring) Version() version.Version {
	return r.ID.Version
}
