// Package page defines the geometric data model the pitch analysis pipeline
// operates on: blobs (connected-component bounding boxes), rows, blocks and
// pages, plus the per-row vertical ink projection.
package page

// Rectangle represents a rectangular bounding box
type Rectangle struct {
	// X is the left coordinate (pixels from left edge)
	X int

	// Y is the top coordinate (pixels from top edge)
	Y int

	// Width is the width of the rectangle in pixels
	Width int

	// Height is the height of the rectangle in pixels
	Height int
}

// NewRectangle creates a new Rectangle
func NewRectangle(x, y, width, height int) Rectangle {
	return Rectangle{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// Right returns the right edge coordinate
func (r Rectangle) Right() int {
	return r.X + r.Width
}

// Bottom returns the bottom edge coordinate
func (r Rectangle) Bottom() int {
	return r.Y + r.Height
}

// CenterX returns the horizontal center of the rectangle
func (r Rectangle) CenterX() float64 {
	return float64(r.X) + float64(r.Width)/2
}

// Intersects returns true if this rectangle intersects with another
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.X < other.Right() &&
		r.Right() > other.X &&
		r.Y < other.Bottom() &&
		r.Bottom() > other.Y
}

// Union returns the smallest rectangle covering both r and other
func (r Rectangle) Union(other Rectangle) Rectangle {
	x := r.X
	if other.X < x {
		x = other.X
	}
	y := r.Y
	if other.Y < y {
		y = other.Y
	}
	right := r.Right()
	if other.Right() > right {
		right = other.Right()
	}
	bottom := r.Bottom()
	if other.Bottom() > bottom {
		bottom = other.Bottom()
	}
	return Rectangle{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Blob is a connected-component bounding box on the page, a candidate glyph
// or glyph fragment. The pitch pipeline reads blob geometry, never writes it.
type Blob struct {
	// Box is the blob's bounding box
	Box Rectangle

	// JoinedToPrev marks the blob as a continuation of the glyph formed by
	// the previous blob in the row (e.g. the dot of an "i")
	JoinedToPrev bool
}

// Baseline is the fitted baseline of a text row, y = Slope*x + Intercept
type Baseline struct {
	// Slope is the baseline gradient (dy/dx)
	Slope float64

	// Intercept is the baseline y at x = 0
	Intercept float64
}

// YAt returns the baseline y coordinate at the given x
func (b Baseline) YAt(x float64) float64 {
	return b.Slope*x + b.Intercept
}

// Projection is a vertical ink-density profile: for each x column the number
// of ink pixels the row's blobs cover. Computed once upstream; the pitch
// pipeline only reads it.
type Projection struct {
	counts []int
	left   int
}

// NewProjection creates a projection covering [left, left+len(counts))
func NewProjection(left int, counts []int) *Projection {
	return &Projection{counts: counts, left: left}
}

// Left returns the x coordinate of the first column
func (p *Projection) Left() int {
	return p.left
}

// Right returns the x coordinate one past the last column
func (p *Projection) Right() int {
	return p.left + len(p.counts)
}

// At returns the ink count at column x, or 0 outside the projection extent
func (p *Projection) At(x int) int {
	if x < p.left || x >= p.left+len(p.counts) {
		return 0
	}
	return p.counts[x-p.left]
}

// Add accumulates another projection into this one, shifted by dx columns.
// The receiver grows as needed to cover the shifted extent.
func (p *Projection) Add(other *Projection, dx int) {
	if other == nil || len(other.counts) == 0 {
		return
	}
	lo := other.left + dx
	hi := lo + len(other.counts)
	if len(p.counts) == 0 {
		p.left = lo
		p.counts = make([]int, hi-lo)
	}
	if lo < p.left {
		grown := make([]int, p.left-lo+len(p.counts))
		copy(grown[p.left-lo:], p.counts)
		p.counts = grown
		p.left = lo
	}
	if hi > p.left+len(p.counts) {
		grown := make([]int, hi-p.left)
		copy(grown, p.counts)
		p.counts = grown
	}
	for i, c := range other.counts {
		p.counts[lo-p.left+i] += c
	}
}

// Row represents one detected text line. The geometry fields are inputs from
// row detection; the pitch working state is written by the pitch pipeline.
type Row struct {
	// Blobs is the row's blob list, ordered left to right
	Blobs []Blob

	// Baseline is the fitted baseline for the row
	Baseline Baseline

	// XHeight is the height of lowercase letters without ascenders/descenders,
	// the natural length scale for all pitch thresholds
	XHeight float64

	// AscRise is the ascender rise above the x-height
	AscRise float64

	// AllCaps marks rows judged to contain only capital letters
	AllCaps bool

	// Projection is the row's vertical ink-density profile
	Projection *Projection

	// Decision is the row's pitch classification state
	Decision Decision

	// FixedPitch is the estimated character pitch in pixels, 0 if proportional
	FixedPitch float64

	// CharCells holds the character-cell boundary x coordinates, left to
	// right; non-empty only when FixedPitch > 0
	CharCells []int

	// UsedDMModel records that the dot-matrix broken-character gap model
	// won the estimation pass for this row
	UsedDMModel bool

	// FPNonSpace and FPSpace are the fixed-pitch gap estimates from gap
	// clustering (non-space gap and space gap)
	FPNonSpace float64
	FPSpace    float64

	// PRNonSpace and PRSpace are the proportional gap estimates
	PRNonSpace float64
	PRSpace    float64

	// Spacing thresholds derived for the downstream word segmenter
	KernSize       float64
	MinSpace       float64
	MaxNonSpace    float64
	SpaceThreshold float64
	SpaceSize      float64
}

// NewRow creates a row with the given geometry inputs
func NewRow(blobs []Blob, baseline Baseline, xheight, ascrise float64) *Row {
	return &Row{
		Blobs:    blobs,
		Baseline: baseline,
		XHeight:  xheight,
		AscRise:  ascrise,
		Decision: Dunno,
	}
}

// Box returns the union bounding box of the row's blobs, or a zero rectangle
// for an empty row
func (r *Row) Box() Rectangle {
	if len(r.Blobs) == 0 {
		return Rectangle{}
	}
	box := r.Blobs[0].Box
	for _, b := range r.Blobs[1:] {
		box = box.Union(b.Box)
	}
	return box
}

// Block owns an ordered list of rows plus block-wide spacing defaults.
type Block struct {
	// Rows is the block's row list in reading order
	Rows []*Row

	// Box is the block's bounding box on the page
	Box Rectangle

	// NonText marks blocks whose page-block type is not text; the pitch
	// pipeline skips them entirely
	NonText bool

	// XHeight is the block-wide x-height estimate
	XHeight float64

	// Decision is the aggregate block-level pitch decision (informational;
	// the per-row decision is authoritative for segmentation)
	Decision Decision

	// FixedPitch is the block-level pitch estimate, 0 if proportional
	FixedPitch float64

	// Block-wide spacing defaults mirroring the per-row fields
	KernSize    float64
	MinSpace    float64
	MaxNonSpace float64
	SpaceSize   float64
	PRNonSpace  float64
	PRSpace     float64
}

// NewBlock creates a block owning the given rows
func NewBlock(rows []*Row) *Block {
	b := &Block{Rows: rows, Decision: Dunno}
	first := true
	for _, r := range rows {
		if r.XHeight > b.XHeight {
			b.XHeight = r.XHeight
		}
		if len(r.Blobs) == 0 {
			continue
		}
		if first {
			b.Box = r.Box()
			first = false
			continue
		}
		b.Box = b.Box.Union(r.Box())
	}
	return b
}

// Page is one raster page's worth of blocks plus the global skew inputs the
// document-level aggregator needs.
type Page struct {
	// Blocks is the page's block list in reading order
	Blocks []*Block

	// Gradient is the page-level skew gradient
	Gradient float64

	// TopRight is the page's top-right corner coordinate
	TopRight Rectangle
}
