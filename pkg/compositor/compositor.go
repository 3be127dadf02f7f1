// Package compositor turns measured highlight regions into a single dimmed
// mask: an opaque tint covering the page, concentric fading ring steps
// around each region, and fully transparent holes where the regions sit.
// The mask is plain data; rendering it is a separate step.
package compositor

import (
	"fmt"

	"github.com/ringmask/ringmask/internal/utils"
)

// ARGB is a color with 8-bit alpha, red, green and blue channels packed as
// 0xAARRGGBB.
type ARGB uint32

// Channels decodes the alpha, red, green and blue channels of the color.
func (c ARGB) Channels() (a, r, g, b int) {
	return int(c >> 24 & 0xFF), int(c >> 16 & 0xFF), int(c >> 8 & 0xFF), int(c & 0xFF)
}

// FromChannels packs 8-bit channels into a color. Out-of-range values are
// clipped.
func FromChannels(a, r, g, b int) ARGB {
	return ARGB(uint32(clip8(a))<<24 | uint32(clip8(r))<<16 | uint32(clip8(g))<<8 | uint32(clip8(b)))
}

func (c ARGB) String() string {
	return fmt.Sprintf("0x%08X", uint32(c))
}

func clip8(n int) int {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

// Rect is an axis-aligned rectangle with inclusive left/top and exclusive
// right/bottom edges, in device pixels.
type Rect struct {
	Left, Top, Right, Bottom int
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Expand grows the rectangle by d pixels on every side.
func (r Rect) Expand(d int) Rect {
	return Rect{Left: r.Left - d, Top: r.Top - d, Right: r.Right + d, Bottom: r.Bottom + d}
}

// Style carries the look-and-feel parameters the compositor needs for one
// highlight region.
type Style struct {
	Padding int
	// Color is the ring stroke color; only honored when CustomColor is set,
	// otherwise the slide tint is used.
	Color       ARGB
	CustomColor bool
	Thickness   int
	// MaxDimension caps the measured width and height independently when
	// positive.
	MaxDimension int
}

// Measurement is one ring's measured page region plus its show eligibility.
type Measurement struct {
	Name    string
	Style   Style
	Found   bool
	Visible bool
	X, Y    int
	W, H    int
	// Fresh is true when the ledger considers the ring unseen, or the
	// caller forced showing.
	Fresh bool
}

// Params describe the page and slide the mask is composed for.
type Params struct {
	// Width and Height of the page's root content area.
	Width, Height int
	// TopInset is subtracted from vertical coordinates; measured positions
	// are window-relative while the mask is content-relative.
	TopInset  int
	Tint      ARGB
	RingCount int
}

// Step is one concentric stroke around a hole, painted with a replace
// blend so overlapping steps do not accumulate.
type Step struct {
	Oval  Rect
	Color ARGB
}

// Mask is the composited overlay background: tint everywhere, then steps,
// then holes cleared to full transparency.
type Mask struct {
	Bounds Rect
	Tint   ARGB
	Steps  []Step
	Holes  []Rect
}

// Result reports the mask and, per input measurement, whether the ring
// resolved to visible.
type Result struct {
	// Mask is nil when every ring resolved to hidden; there is nothing to
	// render then.
	Mask  *Mask
	Shown []bool
}

// Compose runs the masking algorithm over the slide's measured rings, in
// slide order.
func Compose(p Params, ms []Measurement) Result {
	res := Result{Shown: make([]bool, len(ms))}

	mask := &Mask{
		Bounds: Rect{Right: p.Width, Bottom: p.Height},
		Tint:   p.Tint,
	}

	any := false
	for i, m := range ms {
		if !m.Found || !m.Visible || !m.Fresh {
			utils.Log.Debugf("ring %q hidden: found=%v visible=%v fresh=%v", m.Name, m.Found, m.Visible, m.Fresh)
			continue
		}

		w, h := m.W, m.H
		if w <= 0 || h <= 0 || m.X < 0 || m.Y < 0 {
			utils.Log.Debugf("ring %q ignored: invalid geometry %dx%d at %d,%d", m.Name, w, h, m.X, m.Y)
			continue
		}

		// Both axes are capped independently; aspect is not preserved.
		if d := m.Style.MaxDimension; d > 0 {
			if w > d {
				w = d
			}
			if h > d {
				h = d
			}
		}

		hole := Rect{
			Left:   m.X - m.Style.Padding,
			Top:    m.Y - m.Style.Padding - p.TopInset,
			Right:  m.X + w + m.Style.Padding,
			Bottom: m.Y + h + m.Style.Padding - p.TopInset,
		}

		color := p.Tint
		if m.Style.CustomColor {
			color = m.Style.Color
		}

		utils.Log.Debugf("ring %q: hole=%+v color=%s count=%d thickness=%d", m.Name, hole, color, p.RingCount, m.Style.Thickness)

		if p.RingCount > 0 && m.Style.Thickness > 0 {
			mask.Steps = append(mask.Steps, strokeSteps(hole, color, p.RingCount, m.Style.Thickness)...)
		}

		mask.Holes = append(mask.Holes, hole)
		res.Shown[i] = true
		any = true
	}

	if !any {
		return res
	}
	res.Mask = mask
	return res
}

// strokeSteps decomposes a stroke into count concentric steps around the
// hole, outermost first. Each step's alpha is reduced by (100/count)% of
// the current alpha before it is painted, so the falloff is geometric.
func strokeSteps(hole Rect, color ARGB, count, thickness int) []Step {
	stepPercent := 100.0 / float64(count)
	alpha, r, g, b := color.Channels()

	steps := make([]Step, 0, count)
	for t := count * thickness; t > 0; t -= thickness {
		alpha = int(float64(alpha) - stepPercent/100*float64(alpha))
		steps = append(steps, Step{
			Oval:  hole.Expand(t),
			Color: FromChannels(alpha, r, g, b),
		})
	}
	return steps
}
