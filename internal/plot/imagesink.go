package plot

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

// ImageSink renders the pushed geometry over a copy of the source page
// image. Labels map to stable colors so the same label always renders the
// same hue across runs.
type ImageSink struct {
	canvas *image.NRGBA
	colors map[string]color.NRGBA
}

// NewImageSink creates a sink drawing over a copy of the given image
func NewImageSink(src image.Image) *ImageSink {
	canvas := imaging.Clone(src)
	return &ImageSink{
		canvas: canvas,
		colors: make(map[string]color.NRGBA),
	}
}

// Box implements Sink by drawing the rectangle outline in the label's color
func (s *ImageSink) Box(box page.Rectangle, label string) {
	c := s.labelColor(label)
	for x := box.X; x <= box.Right(); x++ {
		s.set(x, box.Y, c)
		s.set(x, box.Bottom(), c)
	}
	for y := box.Y; y <= box.Bottom(); y++ {
		s.set(box.X, y, c)
		s.set(box.Right(), y, c)
	}
}

// VerticalLine implements Sink
func (s *ImageSink) VerticalLine(x, top, bottom int, label string) {
	c := s.labelColor(label)
	for y := top; y <= bottom; y++ {
		s.set(x, y, c)
	}
}

// Image returns the annotated canvas
func (s *ImageSink) Image() image.Image {
	return s.canvas
}

// Save writes the annotated canvas to the given path; the format follows
// the file extension
func (s *ImageSink) Save(path string) error {
	if err := imaging.Save(s.canvas, path); err != nil {
		return fmt.Errorf("failed to save debug image: %w", err)
	}
	return nil
}

func (s *ImageSink) set(x, y int, c color.NRGBA) {
	b := s.canvas.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	s.canvas.SetNRGBA(x, y, c)
}

// labelColor assigns each label a hue spaced around the color wheel in
// first-seen order
func (s *ImageSink) labelColor(label string) color.NRGBA {
	if c, ok := s.colors[label]; ok {
		return c
	}
	// Golden-angle hue steps keep neighboring labels visually distinct.
	hue := float64(len(s.colors)*137) + 20
	for hue >= 360 {
		hue -= 360
	}
	r, g, b := colorful.Hcl(hue, 0.9, 0.6).Clamped().RGB255()
	c := color.NRGBA{R: r, G: g, B: b, A: 255}
	s.colors[label] = c
	return c
}

// interface checks
var (
	_ Sink = NopSink{}
	_ Sink = (*ImageSink)(nil)
)
