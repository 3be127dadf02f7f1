package overlay

import (
	"sync"

	"github.com/ringmask/ringmask/pkg/compositor"
)

// Process-wide defaults for newly constructed look-and-feel values and
// slides. Changing them affects only what is constructed afterwards.
var (
	defaultsMu           sync.Mutex
	defaultTintColor     = compositor.ARGB(0xC0000000)
	defaultRingCount     = 4
	defaultRingThickness = 10
	defaultPadding       = 2
)

func SetDefaultTintColor(c compositor.ARGB) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultTintColor = c
}

func SetDefaultRingCount(n int) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultRingCount = n
}

func SetDefaultRingThickness(px int) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultRingThickness = px
}

func SetDefaultPadding(px int) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultPadding = px
}

func DefaultTintColor() compositor.ARGB {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	return defaultTintColor
}

func DefaultRingCount() int {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	return defaultRingCount
}

func DefaultRingThickness() int {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	return defaultRingThickness
}

func DefaultPadding() int {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	return defaultPadding
}

// LookAndFeel is the visual styling of one ring's highlight. Values are
// immutable once constructed.
type LookAndFeel struct {
	Padding int
	// RingColor is honored only when CustomColor is set; otherwise the
	// slide's tint color paints the ring steps.
	RingColor   compositor.ARGB
	CustomColor bool
	Thickness   int
	// MaxDimension caps the highlighted region's width and height
	// independently when positive.
	MaxDimension int
}

// NewLookAndFeel returns a look-and-feel built from the process defaults,
// ring-colored by the slide tint.
func NewLookAndFeel() LookAndFeel {
	return PaddedLookAndFeel(DefaultPadding())
}

// PaddedLookAndFeel is NewLookAndFeel with an explicit padding.
func PaddedLookAndFeel(padding int) LookAndFeel {
	return LookAndFeel{
		Padding:   padding,
		Thickness: DefaultRingThickness(),
	}
}

// CustomLookAndFeel supplies every value, including an explicit ring
// color. maxDimension <= 0 leaves the region size uncapped.
func CustomLookAndFeel(padding int, color compositor.ARGB, thickness, maxDimension int) LookAndFeel {
	return LookAndFeel{
		Padding:      padding,
		RingColor:    color,
		CustomColor:  true,
		Thickness:    thickness,
		MaxDimension: maxDimension,
	}
}

func (l LookAndFeel) style() compositor.Style {
	return compositor.Style{
		Padding:      l.Padding,
		Color:        l.RingColor,
		CustomColor:  l.CustomColor,
		Thickness:    l.Thickness,
		MaxDimension: l.MaxDimension,
	}
}
