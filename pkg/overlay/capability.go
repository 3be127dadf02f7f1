package overlay

// The engine renders nothing itself and owns no view hierarchy; these
// interfaces are the collaborators a host plugs in.

// Region is a measured page region in window coordinates.
type Region struct {
	X, Y    int
	W, H    int
	Visible bool
}

// Page exposes the underlying page an overlay covers.
type Page interface {
	// Root returns the measured size of the page's root content area.
	// ok is false when the page has no discoverable root.
	Root() (w, h int, ok bool)

	// TopInset is the height of any system chrome above the content area
	// (a status bar); measured regions include it, the mask does not.
	TopInset() int

	// Region measures the region identified by ref, or reports not found.
	Region(ref string) (Region, bool)
}

// Content is an instantiated slide layout: the overlay-side companion
// regions plus click delivery.
type Content interface {
	// SetVisible shows or hides the whole content handle.
	SetVisible(visible bool)

	// SetRegionVisible shows or hides one companion region. Unknown refs
	// are ignored.
	SetRegionVisible(ref string, visible bool)

	// Bind attaches a callback to clicks on ref; Unbind removes it.
	Bind(ref string, fn func())
	Unbind(ref string)

	// Destroy releases everything the handle retains. The handle is not
	// usable afterwards.
	Destroy()
}

// Inflater turns a layout reference into a Content handle.
type Inflater interface {
	Inflate(layoutRef string) (Content, error)
}

// ClickHandler is invoked when a bound region inside a slide's content is
// clicked.
type ClickHandler func(s *Slide, region string)

// StateHandler is notified when a slide is attached to or detached from
// an overlay.
type StateHandler interface {
	OnAttach(s *Slide)
	OnDetach(s *Slide)
}

// StateFuncs adapts two funcs to a StateHandler; either may be nil.
type StateFuncs struct {
	Attach func(*Slide)
	Detach func(*Slide)
}

func (f StateFuncs) OnAttach(s *Slide) {
	if f.Attach != nil {
		f.Attach(s)
	}
}

func (f StateFuncs) OnDetach(s *Slide) {
	if f.Detach != nil {
		f.Detach(s)
	}
}
