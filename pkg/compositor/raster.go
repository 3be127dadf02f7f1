package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// Rasterize renders the mask into a straight-alpha image. Steps replace
// the pixels beneath them and holes are cleared to full transparency, so
// the result matches what the mask describes regardless of paint order
// within a single ring.
func Rasterize(m *Mask) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(m.Bounds.Left, m.Bounds.Top, m.Bounds.Right, m.Bounds.Bottom))

	draw.Draw(img, img.Bounds(), image.NewUniform(toNRGBA(m.Tint)), image.Point{}, draw.Src)

	for _, s := range m.Steps {
		fillEllipse(img, s.Oval, toNRGBA(s.Color))
	}
	for _, h := range m.Holes {
		fillEllipse(img, h, color.NRGBA{})
	}
	return img
}

// WritePNG rasterizes the mask and writes it to path.
func WritePNG(m *Mask, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("compositor: create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, Rasterize(m)); err != nil {
		return fmt.Errorf("compositor: encode %s: %w", path, err)
	}
	return nil
}

func toNRGBA(c ARGB) color.NRGBA {
	a, r, g, b := c.Channels()
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}
}

// fillEllipse writes c into every pixel inside the ellipse inscribed in r,
// replacing whatever was painted before.
func fillEllipse(img *image.NRGBA, r Rect, c color.NRGBA) {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return
	}

	cx := float64(r.Left) + float64(w)/2
	cy := float64(r.Top) + float64(h)/2
	rx := float64(w) / 2
	ry := float64(h) / 2

	clip := img.Bounds()
	for y := max(r.Top, clip.Min.Y); y < min(r.Bottom, clip.Max.Y); y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		for x := max(r.Left, clip.Min.X); x < min(r.Right, clip.Max.X); x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			if dx*dx+dy*dy <= 1 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}
