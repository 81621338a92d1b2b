package pitch

import (
	"math"
	"sort"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

// glyphs collapses JoinedToPrev continuation blobs into whole-glyph bounding
// boxes, left to right. Gap analysis and cell fitting always operate on
// glyph boxes, never raw blobs.
func glyphs(blobs []page.Blob) []page.Rectangle {
	var out []page.Rectangle
	for _, b := range blobs {
		if b.JoinedToPrev && len(out) > 0 {
			out[len(out)-1] = out[len(out)-1].Union(b.Box)
			continue
		}
		out = append(out, b.Box)
	}
	return out
}

// mergeClose merges adjacent boxes separated by at most maxGap pixels. This
// is the dot-matrix model: fragments of one broken character become a single
// box before gap statistics and fitting.
func mergeClose(boxes []page.Rectangle, maxGap int) []page.Rectangle {
	if maxGap <= 0 || len(boxes) == 0 {
		return boxes
	}
	out := []page.Rectangle{boxes[0]}
	for _, b := range boxes[1:] {
		last := &out[len(out)-1]
		if b.X-last.Right() <= maxGap {
			*last = last.Union(b)
			continue
		}
		out = append(out, b)
	}
	return out
}

// wordRanges groups boxes into words: maximal runs whose internal gaps stay
// at or below the space threshold. Each element is a [start, end) index pair
// into boxes.
func wordRanges(boxes []page.Rectangle, spaceThreshold float64) [][2]int {
	var out [][2]int
	start := 0
	for i := 1; i < len(boxes); i++ {
		gap := float64(boxes[i].X - boxes[i-1].Right())
		if gap > spaceThreshold {
			out = append(out, [2]int{start, i})
			start = i
		}
	}
	if len(boxes) > 0 {
		out = append(out, [2]int{start, len(boxes)})
	}
	return out
}

// boxSpan returns the left edge of the first box and the right edge of the
// last box
func boxSpan(boxes []page.Rectangle) (left, right int) {
	if len(boxes) == 0 {
		return 0, 0
	}
	return boxes[0].X, boxes[len(boxes)-1].Right()
}

// pitchSamples returns the center-to-center distances between consecutive
// boxes within words (gaps at or below the space threshold)
func pitchSamples(boxes []page.Rectangle, spaceThreshold float64) []float64 {
	var out []float64
	for i := 1; i < len(boxes); i++ {
		gap := float64(boxes[i].X - boxes[i-1].Right())
		if gap > spaceThreshold {
			continue
		}
		out = append(out, boxes[i].CenterX()-boxes[i-1].CenterX())
	}
	return out
}

// gapSamples returns the edge-to-edge gaps between consecutive boxes
func gapSamples(boxes []page.Rectangle) []float64 {
	var out []float64
	for i := 1; i < len(boxes); i++ {
		out = append(out, float64(boxes[i].X-boxes[i-1].Right()))
	}
	return out
}

// sampleIQR returns the inter-quartile range of a sample set by sorting a
// copy and interpolating the quartile positions. An empty set reports an
// infinite spread so callers treat it as no evidence.
func sampleIQR(samples []float64) float64 {
	if len(samples) == 0 {
		return math.Inf(1)
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return quantile(sorted, 0.75) - quantile(sorted, 0.25)
}

// sampleMedian returns the median of a sample set, 0 if empty
func sampleMedian(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return quantile(sorted, 0.5)
}

// quantile interpolates the q-th quantile of an ascending sorted slice
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
