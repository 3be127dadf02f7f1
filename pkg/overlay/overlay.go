// Package overlay presents sequential coach-mark slides over a page,
// deciding per versioned identity whether content is new to the user and
// compositing a dimmed mask with transparent holes around the regions it
// highlights.
package overlay

import (
	"fmt"
	"sync"

	"github.com/ringmask/ringmask/internal/utils"
	"github.com/ringmask/ringmask/pkg/compositor"
	"github.com/ringmask/ringmask/pkg/ledger"
	"github.com/ringmask/ringmask/pkg/version"
)

// Overlay owns a sequence of attached slides over one page and drives the
// show / auto-show / navigation protocol. Instances are created through a
// Factory; at most one lives per (page, version) pair.
//
// All mutating operations serialize on an internal lock: the engine
// targets a single-threaded host, but attach/show/detach tear shared
// state if interleaved.
type Overlay struct {
	mu sync.Mutex

	id       version.Meta[Page]
	page     Page
	inflater Inflater
	factory  *Factory

	// led may be nil, in which case every identity counts as new and
	// nothing is recorded.
	led ledger.Ledger

	slides     []*Slide
	current    *Slide
	background *compositor.Mask
	visible    bool
	destroyed  bool
}

func newOverlay(id version.Meta[Page], inflater Inflater, f *Factory) (*Overlay, error) {
	page := id.Data
	if page == nil {
		return nil, ErrInvalidContentRoot
	}
	if _, _, ok := page.Root(); !ok {
		return nil, ErrInvalidContentRoot
	}
	return &Overlay{id: id, page: page, inflater: inflater, factory: f}, nil
}

func (o *Overlay) String() string { return o.id.String() }

// ID returns the overlay's identity, page handle included.
func (o *Overlay) ID() version.Meta[Page] { return o.id }

// Version returns the overlay's version identity.
func (o *Overlay) Version() version.Version { return o.id.Version }

// Ledger returns the visibility ledger in use, possibly nil.
func (o *Overlay) Ledger() ledger.Ledger {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.led
}

// SetLedger installs the visibility ledger consulted and written by Show.
// A nil ledger makes every identity permanently new.
func (o *Overlay) SetLedger(led ledger.Ledger) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.led = led
}

// Slides returns the attached slides in attach order.
func (o *Overlay) Slides() []*Slide {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*Slide, len(o.slides))
	copy(out, o.slides)
	return out
}

// CurrentSlide returns the slide currently shown, or nil.
func (o *Overlay) CurrentSlide() *Slide {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Background returns the last committed mask, or nil before any show.
func (o *Overlay) Background() *compositor.Mask {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.background
}

// Visible reports whether the overlay is currently presented.
func (o *Overlay) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

// Attach binds a detached slide to this overlay and inflates its content.
// The slide is not shown. Attaching a slide already bound here is a
// no-op; a slide bound to a different overlay fails with
// ErrAlreadyAttached.
func (o *Overlay) Attach(s *Slide) error {
	if s == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if s.owner == o {
		return nil
	}
	if s.owner != nil {
		return ErrAlreadyAttached
	}

	content, err := o.inflater.Inflate(s.LayoutRef())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInflation, s.LayoutRef(), err)
	}
	if content == nil {
		return fmt.Errorf("%w: %s: inflater returned no content", ErrInflation, s.LayoutRef())
	}
	content.SetVisible(false)

	o.slides = append(o.slides, s)
	s.attachInternal(o, content)
	return nil
}

// Detach unbinds a slide from this overlay and destroys its content.
// Detaching a slide with no content handle fails with ErrAlreadyDetached;
// a slide attached to a different overlay is left alone.
func (o *Overlay) Detach(s *Slide) error {
	if s == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if s.content == nil {
		return ErrAlreadyDetached
	}
	if s.owner != o {
		return nil
	}

	s.hideInternal()
	s.detachInternal()

	for i, attached := range o.slides {
		if attached == s {
			o.slides = append(o.slides[:i], o.slides[i+1:]...)
			break
		}
	}
	if o.current == s {
		o.current = nil
	}
	return nil
}

// Show presents the slide if the ledger considers any part of it new.
// Already-seen content reports true without rendering; a slide that is
// not attached here, or whose rings all resolve to hidden, reports false.
func (o *Overlay) Show(s *Slide) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.show(s, false)
}

// ShowForced presents the slide without consulting or updating the
// ledger.
func (o *Overlay) ShowForced(s *Slide) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.show(s, true)
}

// ShowAt shows the slide at index i in attach order.
func (o *Overlay) ShowAt(i int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if i < 0 || i >= len(o.slides) {
		return false
	}
	return o.show(o.slides[i], false)
}

// ShowAtForced is ShowAt without the ledger gate.
func (o *Overlay) ShowAtForced(i int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if i < 0 || i >= len(o.slides) {
		return false
	}
	return o.show(o.slides[i], true)
}

// ShowNext shows the slide after the current one, or the first when
// nothing is showing. Past the last slide it reports false rather than
// wrapping; callers treat that as "no more slides".
func (o *Overlay) ShowNext() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	idx := 0
	if o.current != nil {
		idx = o.slideIndex(o.current) + 1
	}
	if idx >= len(o.slides) {
		return false
	}
	return o.show(o.slides[idx], false)
}

// ShowPrevious shows the slide before the current one, wrapping to the
// last slide from the first one or when nothing is showing.
func (o *Overlay) ShowPrevious() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.slides) == 0 {
		return false
	}
	idx := len(o.slides) - 1
	if o.current != nil {
		idx = o.slideIndex(o.current) - 1
		if idx < 0 {
			idx = len(o.slides) - 1
		}
	}
	return o.show(o.slides[idx], false)
}

// AutoShow walks the attached slides in order and shows the first one the
// ledger gate lets through. When no slide needs showing the overlay is
// destroyed, and AutoShow reports false.
func (o *Overlay) AutoShow() bool {
	o.mu.Lock()
	for _, s := range o.slides {
		if o.show(s, false) {
			o.mu.Unlock()
			return true
		}
	}
	o.mu.Unlock()

	o.Destroy()
	return false
}

// Hide conceals the overlay without touching slide state; Reveal brings
// it back.
func (o *Overlay) Hide() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = false
}

// Reveal re-presents the overlay after a Hide. It does nothing before the
// first successful show.
func (o *Overlay) Reveal() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		o.visible = true
	}
}

// Destroy detaches every slide (firing OnDetach once each, destroying
// their content) and removes the instance from its factory. The overlay
// exclusively owns attached content, so teardown happens even if the
// caller never detached explicitly.
func (o *Overlay) Destroy() {
	o.destroyInternal(true)
}

// PageDestroyed is the lifecycle notification for hosts whose page is
// being torn down; it releases everything the overlay retains.
func (o *Overlay) PageDestroyed() {
	o.destroyInternal(true)
}

func (o *Overlay) destroyInternal(updateFactory bool) {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		return
	}
	o.destroyed = true
	o.visible = false

	for _, s := range o.slides {
		s.hideInternal()
		s.detachInternal()
	}
	o.slides = nil
	o.current = nil
	o.background = nil
	o.mu.Unlock()

	if updateFactory {
		o.factory.destroyInstance(o)
	}
}

func (o *Overlay) slideIndex(s *Slide) int {
	for i, attached := range o.slides {
		if attached == s {
			return i
		}
	}
	return -1
}

// Ledger keys: overlay and slide records are keyed by their full
// name-version string, so a version bump naturally reads as a new key;
// ring records are keyed by bare name with the version stored as the
// value, letting bumped rings re-show via the relative check.
func (o *Overlay) overlayKey() ledger.Key {
	return ledger.Key{Overlay: o.id.String()}
}

func (o *Overlay) slideKey(s *Slide) ledger.Key {
	return ledger.Key{Overlay: o.id.String(), Slide: s.String()}
}

func (o *Overlay) ringKey(s *Slide, r *Ring) ledger.Key {
	return ledger.Key{Overlay: o.id.String(), Slide: s.String(), Ring: r.ID.Name}
}

// show runs the decision gate and compositing for one slide. The caller
// holds the instance lock.
func (o *Overlay) show(s *Slide, force bool) bool {
	if s == nil || o.slideIndex(s) < 0 {
		return false
	}
	if o.current == s {
		return true
	}
	if s.content == nil {
		return false
	}

	// Decision gate: show when the overlay, the slide, or any ring is
	// new. Already-seen content is handled successfully by doing nothing.
	firstShowing := force
	if !force && o.led != nil {
		firstShowing = o.led.IsNew(o.overlayKey())
		should := firstShowing || o.led.IsNew(o.slideKey(s))
		if !should {
			for _, r := range s.rings {
				if o.led.IsNewRelativeTo(o.ringKey(s, r), r.Version()) {
					utils.Log.Debugf("overlay %s: ring %s not viewed yet", o, r)
					should = true
					break
				}
			}
		}
		if !should {
			utils.Log.Debugf("overlay %s: slide %s already seen", o, s)
			return true
		}
	}

	w, h, ok := o.page.Root()
	if !ok {
		return false
	}

	rings := s.rings
	ms := make([]compositor.Measurement, len(rings))
	fresh := make([]bool, len(rings))
	for i, r := range rings {
		region, found := o.page.Region(r.PageRegion)
		fresh[i] = force || o.led == nil || o.led.IsNewRelativeTo(o.ringKey(s, r), r.Version())
		ms[i] = compositor.Measurement{
			Name:    r.ID.Name,
			Style:   r.ID.Data.style(),
			Found:   found,
			Visible: found && region.Visible,
			X:       region.X,
			Y:       region.Y,
			W:       region.W,
			H:       region.H,
			Fresh:   fresh[i],
		}
	}

	res := compositor.Compose(compositor.Params{
		Width:     w,
		Height:    h,
		TopInset:  o.page.TopInset(),
		Tint:      s.TintColor(),
		RingCount: s.RingCount(),
	}, ms)

	// Nothing meaningful to show: the mask is never partially committed,
	// so the overlay keeps its last successful state.
	if res.Mask == nil {
		return false
	}

	for i, r := range rings {
		if r.SlideRegion == "" {
			continue
		}
		s.content.SetRegionVisible(r.SlideRegion, res.Shown[i])
	}
	if !force && o.led != nil {
		for i, r := range rings {
			if res.Shown[i] && fresh[i] {
				o.led.Register(o.ringKey(s, r), r.Version())
			}
		}
	}

	if o.current != nil {
		o.current.hideInternal()
	}
	s.showInternal()

	o.background = res.Mask
	o.visible = true

	if !force && o.led != nil {
		o.led.Register(o.slideKey(s), s.Version())
		if firstShowing {
			o.led.Register(o.overlayKey(), o.Version())
		}
	}

	o.current = s
	return true
}
