package page

import (
	"fmt"

	"github.com/ringmask/ringmask/pkg/overlay"
)

// Layout names a slide layout and the companion regions it contains.
type Layout struct {
	Name    string
	Regions []string
}

// StaticInflater serves overlay.Content handles from a fixed set of
// layouts. Hosts without a real view tree (and tests) use it as their
// content-instantiation capability.
type StaticInflater struct {
	layouts map[string]Layout
}

func NewStaticInflater(layouts ...Layout) *StaticInflater {
	m := make(map[string]Layout, len(layouts))
	for _, l := range layouts {
		m[l.Name] = l
	}
	return &StaticInflater{layouts: m}
}

// Inflate produces a fresh StaticContent for the named layout. Unknown
// layout references fail.
func (i *StaticInflater) Inflate(layoutRef string) (overlay.Content, error) {
	l, ok := i.layouts[layoutRef]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", layoutRef)
	}

	regions := make(map[string]bool, len(l.Regions))
	for _, r := range l.Regions {
		regions[r] = true
	}
	return &StaticContent{
		regions: regions,
		clicks:  make(map[string]func()),
	}, nil
}

// StaticContent is an in-memory content handle: per-region visibility
// plus click callbacks. It doubles as a test double for the click
// delivery capability via Click.
type StaticContent struct {
	destroyed bool
	visible   bool
	regions   map[string]bool
	clicks    map[string]func()
}

func (c *StaticContent) SetVisible(visible bool) {
	c.visible = visible
}

// Visible reports the handle's overall visibility.
func (c *StaticContent) Visible() bool { return c.visible }

func (c *StaticContent) SetRegionVisible(ref string, visible bool) {
	if _, ok := c.regions[ref]; ok {
		c.regions[ref] = visible
	}
}

// RegionVisible reports whether a companion region is currently shown.
func (c *StaticContent) RegionVisible(ref string) bool {
	return c.regions[ref]
}

func (c *StaticContent) Bind(ref string, fn func()) {
	c.clicks[ref] = fn
}

func (c *StaticContent) Unbind(ref string) {
	delete(c.clicks, ref)
}

// Click simulates a user click on ref, invoking any bound callback.
func (c *StaticContent) Click(ref string) {
	if fn, ok := c.clicks[ref]; ok {
		fn()
	}
}

func (c *StaticContent) Destroy() {
	c.destroyed = true
	c.visible = false
	c.clicks = make(map[string]func())
}

// Destroyed reports whether the handle was torn down.
func (c *StaticContent) Destroyed() bool { return c.destroyed }
