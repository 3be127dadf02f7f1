package overlay

import (
	"github.com/ringmask/ringmask/pkg/compositor"
	"github.com/ringmask/ringmask/pkg/version"
)

// Slide is one page of an overlay: an ordered set of rings, the layout
// they annotate, a tint and per-region click handlers.
//
// A slide starts detached, is attached to at most one overlay at a time
// (which instantiates its content), and may be re-attached elsewhere
// after detaching. Mutating a slide while its overlay is mid-show is not
// supported; the engine targets a single-threaded, event-driven host.
type Slide struct {
	// id names the slide; the layout reference rides along as payload.
	id version.Meta[string]

	rings    []*Ring
	tint     compositor.ARGB
	ringCnt  int
	handlers map[string]ClickHandler
	state    StateHandler

	// owner and content are set while attached; content is non-nil iff
	// attached. owner is a non-owning back-reference, cleared on detach.
	owner   *Overlay
	content Content
}

// NewSlide builds a detached slide using the process-default tint color
// and ring count.
func NewSlide(id version.Meta[string]) *Slide {
	return &Slide{
		id:       id,
		tint:     DefaultTintColor(),
		ringCnt:  DefaultRingCount(),
		handlers: make(map[string]ClickHandler),
	}
}

func (s *Slide) String() string { return s.id.String() }

// ID returns the slide's identity, layout reference included.
func (s *Slide) ID() version.Meta[string] { return s.id }

// Version returns the slide's version identity.
func (s *Slide) Version() version.Version { return s.id.Version }

// LayoutRef returns the layout reference the slide inflates on attach.
func (s *Slide) LayoutRef() string { return s.id.Data }

// Overlay returns the overlay the slide is attached to, or nil.
func (s *Slide) Overlay() *Overlay { return s.owner }

// Content returns the slide's content handle, non-nil only while
// attached.
func (s *Slide) Content() Content { return s.content }

func (s *Slide) TintColor() compositor.ARGB { return s.tint }

func (s *Slide) SetTintColor(c compositor.ARGB) { s.tint = c }

func (s *Slide) RingCount() int { return s.ringCnt }

func (s *Slide) SetRingCount(n int) { s.ringCnt = n }

// SetStateHandler installs the attach/detach callback.
func (s *Slide) SetStateHandler(h StateHandler) { s.state = h }

// ClickHandler returns the handler bound to region, or nil.
func (s *Slide) ClickHandler(region string) ClickHandler {
	return s.handlers[region]
}

// SetClickHandler binds a handler to clicks on region. The first handler
// for a region wins; later calls for the same region are ignored.
func (s *Slide) SetClickHandler(region string, h ClickHandler) {
	if h == nil {
		return
	}
	if _, exists := s.handlers[region]; exists {
		return
	}
	s.handlers[region] = h
}

// AddRing appends a ring, keeping insertion order. A ring already present
// (by identity) is not added twice.
func (s *Slide) AddRing(r *Ring) {
	if r == nil {
		return
	}
	for _, existing := range s.rings {
		if version.MetaEqual(existing.ID, r.ID) {
			return
		}
	}
	s.rings = append(s.rings, r)
}

// RemoveRing removes a previously added ring.
func (s *Slide) RemoveRing(r *Ring) {
	if r == nil {
		return
	}
	for i, existing := range s.rings {
		if version.MetaEqual(existing.ID, r.ID) {
			s.rings = append(s.rings[:i], s.rings[i+1:]...)
			return
		}
	}
}

// Rings returns the slide's rings in insertion order.
func (s *Slide) Rings() []*Ring {
	out := make([]*Ring, len(s.rings))
	copy(out, s.rings)
	return out
}

func (s *Slide) attachInternal(o *Overlay, content Content) {
	s.owner = o
	s.content = content
	if s.state != nil {
		s.state.OnAttach(s)
	}
}

func (s *Slide) detachInternal() {
	if s.state != nil {
		s.state.OnDetach(s)
	}
	if s.content != nil {
		s.content.Destroy()
	}
	s.content = nil
	s.owner = nil
}

// showInternal binds click handlers and reveals the content handle.
func (s *Slide) showInternal() {
	for region, h := range s.handlers {
		s.content.Bind(region, func() { h(s, region) })
	}
	s.content.SetVisible(true)
}

// hideInternal hides the content handle and unbinds click handlers.
func (s *Slide) hideInternal() {
	if s.content == nil {
		return
	}
	s.content.SetVisible(false)
	for region := range s.handlers {
		s.content.Unbind(region)
	}
}
