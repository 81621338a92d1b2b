// Package raster turns a page image into the row/block model the pitch
// pipeline consumes: grayscale conversion, Otsu binarization, connected
// component extraction, row grouping and per-row ink projections.
package raster

import (
	"fmt"
	"image"
	"sort"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

// minBlobArea filters out single-pixel noise components
const minBlobArea = 2

// LoadPage reads an image file and builds the page model from it
func LoadPage(path string) (*page.Page, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page image: %w", err)
	}
	return BuildPage(img), nil
}

// BuildPage converts a raster image into a single-block page: binarize,
// extract components, group them into rows and compute ink projections.
// Dark pixels are ink.
func BuildPage(img image.Image) *page.Page {
	gray := imaging.Grayscale(img)
	binary := segment.Threshold(gray, otsuLevel(gray))

	boxes := components(binary)
	rows := groupRows(boxes)
	for _, row := range rows {
		buildProjection(row, binary)
	}

	bounds := img.Bounds()
	return &page.Page{
		Blocks:   []*page.Block{page.NewBlock(rows)},
		TopRight: page.NewRectangle(bounds.Max.X, bounds.Min.Y, 0, 0),
	}
}

// otsuLevel picks the binarization threshold maximizing between-class
// variance of the grayscale histogram
func otsuLevel(img *image.NRGBA) uint8 {
	var hist [256]int
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[img.NRGBAAt(x, y).R]++
		}
	}

	sum := 0.0
	for v, n := range hist {
		sum += float64(v * n)
	}
	sumBack := 0.0
	weightBack := 0
	best := 0.0
	level := uint8(127)
	for v := 0; v < 256; v++ {
		weightBack += hist[v]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(v * hist[v])
		meanBack := sumBack / float64(weightBack)
		meanFore := (sum - sumBack) / float64(weightFore)
		diff := meanBack - meanFore
		variance := float64(weightBack) * float64(weightFore) * diff * diff
		if variance > best {
			best = variance
			level = uint8(v)
		}
	}
	return level
}

// components extracts bounding boxes of 8-connected ink regions with a
// two-pass union-find labeling
func components(binary *image.Gray) []page.Rectangle {
	b := binary.Bounds()
	w, h := b.Dx(), b.Dy()
	labels := make([]int, w*h)
	parent := []int{0} // parent[0] unused; labels start at 1

	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, c int) {
		ra, rc := find(a), find(c)
		if ra < rc {
			parent[rc] = ra
		} else {
			parent[ra] = rc
		}
	}

	ink := func(x, y int) bool {
		return binary.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !ink(x, y) {
				continue
			}
			// Neighbors already visited in raster order.
			var near []int
			if x > 0 && labels[y*w+x-1] != 0 {
				near = append(near, labels[y*w+x-1])
			}
			if y > 0 {
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					if l := labels[(y-1)*w+nx]; l != 0 {
						near = append(near, l)
					}
				}
			}
			if len(near) == 0 {
				label := len(parent)
				parent = append(parent, label)
				labels[y*w+x] = label
				continue
			}
			min := near[0]
			for _, l := range near[1:] {
				if l < min {
					min = l
				}
			}
			labels[y*w+x] = min
			for _, l := range near {
				if l != min {
					union(min, l)
				}
			}
		}
	}

	boxes := make(map[int]*page.Rectangle)
	areas := make(map[int]int)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := labels[y*w+x]
			if l == 0 {
				continue
			}
			root := find(l)
			px, py := b.Min.X+x, b.Min.Y+y
			if box, ok := boxes[root]; ok {
				*box = box.Union(page.NewRectangle(px, py, 1, 1))
			} else {
				r := page.NewRectangle(px, py, 1, 1)
				boxes[root] = &r
			}
			areas[root]++
		}
	}

	var roots []int
	for root, area := range areas {
		if area >= minBlobArea {
			roots = append(roots, root)
		}
	}
	sort.Ints(roots)
	out := make([]page.Rectangle, 0, len(roots))
	for _, root := range roots {
		out = append(out, *boxes[root])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// groupRows assigns component boxes to text rows by vertical overlap and
// derives each row's size statistics
func groupRows(boxes []page.Rectangle) []*page.Row {
	type band struct {
		boxes []page.Rectangle
		top   int
		bot   int
	}
	var bands []*band
	for _, box := range boxes {
		var best *band
		bestOverlap := 0
		for _, bd := range bands {
			top := max(bd.top, box.Y)
			bot := min(bd.bot, box.Bottom())
			if overlap := bot - top; overlap > bestOverlap && overlap*2 >= box.Height {
				best = bd
				bestOverlap = overlap
			}
		}
		if best == nil {
			bands = append(bands, &band{boxes: []page.Rectangle{box}, top: box.Y, bot: box.Bottom()})
			continue
		}
		best.boxes = append(best.boxes, box)
		if box.Y < best.top {
			best.top = box.Y
		}
		if box.Bottom() > best.bot {
			best.bot = box.Bottom()
		}
	}

	sort.Slice(bands, func(i, j int) bool { return bands[i].top < bands[j].top })

	// Small floating bands (dots, accents) attach to the taller band just
	// below them instead of forming rows of their own.
	for i := 0; i < len(bands)-1; {
		cur, below := bands[i], bands[i+1]
		h := cur.bot - cur.top
		hb := below.bot - below.top
		gap := below.top - cur.bot
		if h*2 <= hb && gap >= 0 && gap <= hb/2 {
			below.boxes = append(below.boxes, cur.boxes...)
			if cur.top < below.top {
				below.top = cur.top
			}
			bands = append(bands[:i], bands[i+1:]...)
			continue
		}
		i++
	}

	rows := make([]*page.Row, 0, len(bands))
	for _, bd := range bands {
		rows = append(rows, buildRow(bd.boxes))
	}
	return rows
}

// buildRow orders a band's boxes, marks joined fragments and estimates the
// row's x-height, ascender rise and baseline
func buildRow(boxes []page.Rectangle) *page.Row {
	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].X != boxes[j].X {
			return boxes[i].X < boxes[j].X
		}
		return boxes[i].Y < boxes[j].Y
	})

	blobs := make([]page.Blob, len(boxes))
	for i, box := range boxes {
		blobs[i] = page.Blob{Box: box}
		// A blob overlapping the previous blob's horizontal span is a
		// fragment of the same glyph (dots, accents, broken strokes).
		if i > 0 && box.X < boxes[i-1].Right() {
			blobs[i].JoinedToPrev = true
		}
	}

	heights := make([]float64, len(boxes))
	bottoms := make([]float64, len(boxes))
	for i, box := range boxes {
		heights[i] = float64(box.Height)
		bottoms[i] = float64(box.Bottom())
	}
	sort.Float64s(heights)
	sort.Float64s(bottoms)
	xHeight := heights[len(heights)/2]
	tall := heights[len(heights)*9/10]
	ascRise := tall - xHeight
	if ascRise < 0 {
		ascRise = 0
	}

	row := page.NewRow(blobs, page.Baseline{Intercept: bottoms[len(bottoms)/2]}, xHeight, ascRise)
	// Uniform heights with no ascender texture read as all-capitals.
	row.AllCaps = len(boxes) > 1 && tall < xHeight*1.1
	return row
}

// buildProjection computes the row's vertical ink projection from the
// binary image, restricted to the row's bounding band
func buildProjection(row *page.Row, binary *image.Gray) {
	box := row.Box()
	if box.Width <= 0 {
		return
	}
	counts := make([]int, box.Width)
	for x := 0; x < box.Width; x++ {
		for y := box.Y; y <= box.Bottom(); y++ {
			if binary.GrayAt(box.X+x, y).Y == 0 {
				counts[x]++
			}
		}
	}
	row.Projection = page.NewProjection(box.X, counts)
}
