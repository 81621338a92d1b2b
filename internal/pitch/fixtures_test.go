package pitch

import (
	"github.com/pitchgrid/pitchgrid/internal/page"
)

// typewriterRow builds a synthetic fixed-pitch row: one blob of the given
// width per 'x' slot in the pattern, slots spaced width+gap apart, with a
// solid ink projection under every blob. A ' ' slot is an empty character
// cell.
func typewriterRow(pattern string, width, gap int, xheight float64) *page.Row {
	pitch := width + gap
	var blobs []page.Blob
	for i, ch := range pattern {
		if ch != 'x' {
			continue
		}
		blobs = append(blobs, page.Blob{
			Box: page.NewRectangle(i*pitch, 0, width, int(xheight)),
		})
	}
	row := page.NewRow(blobs, page.Baseline{Intercept: xheight}, xheight, 4)
	row.Projection = inkProjection(blobs, int(xheight))
	return row
}

// typesetRow builds a synthetic proportional row from explicit glyph widths
// and the gaps following each glyph.
func typesetRow(widths, gaps []int, xheight float64) *page.Row {
	var blobs []page.Blob
	x := 0
	for i, w := range widths {
		blobs = append(blobs, page.Blob{Box: page.NewRectangle(x, 0, w, int(xheight))})
		if i < len(gaps) {
			x += w + gaps[i]
		}
	}
	row := page.NewRow(blobs, page.Baseline{Intercept: xheight}, xheight, 4)
	row.Projection = inkProjection(blobs, int(xheight))
	return row
}

// dotMatrixRow builds a fixed-pitch row of broken characters: each character
// cell holds two fragments separated by a small internal gap, character
// widths alternating so the inter-character gaps vary slightly.
func dotMatrixRow(n int, xheight float64) *page.Row {
	const pitch = 14
	var blobs []page.Blob
	for i := 0; i < n; i++ {
		w := 10
		if i%2 == 1 {
			w = 9
		}
		x := i * pitch
		blobs = append(blobs,
			page.Blob{Box: page.NewRectangle(x, 0, 4, int(xheight))},
			page.Blob{Box: page.NewRectangle(x+6, 0, w-6, int(xheight))},
		)
	}
	row := page.NewRow(blobs, page.Baseline{Intercept: xheight}, xheight, 4)
	row.Projection = inkProjection(blobs, int(xheight))
	return row
}

// inkProjection builds the vertical projection of solid blobs
func inkProjection(blobs []page.Blob, density int) *page.Projection {
	if len(blobs) == 0 {
		return page.NewProjection(0, nil)
	}
	left := blobs[0].Box.X
	right := blobs[len(blobs)-1].Box.Right()
	counts := make([]int, right-left)
	for _, b := range blobs {
		for x := b.Box.X; x < b.Box.Right(); x++ {
			counts[x-left] = density
		}
	}
	return page.NewProjection(left, counts)
}

// propWidths and propGaps describe a typeset row irregular enough that no
// uniform grid fits it
var (
	propWidths = []int{12, 9, 15, 11, 8, 16, 10, 13, 9, 14, 12, 10, 15, 11}
	propGaps   = []int{3, 5, 2, 4, 3, 2, 5, 3, 4, 2, 3, 5, 2}
)

// singleBlockPage wraps rows into a one-block page
func singleBlockPage(rows ...*page.Row) *page.Page {
	return &page.Page{Blocks: []*page.Block{page.NewBlock(rows)}}
}
