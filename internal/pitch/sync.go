package pitch

import (
	"math"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

// FitResult is the outcome of one cell-fitting pass over a row.
type FitResult struct {
	// Pitch is the pitch the winning grid actually uses, in pixels
	Pitch float64

	// Cells holds the fitted cell-boundary x coordinates, ascending
	Cells []int

	// SyncSD is the RMS error of the fit against the ink projection, in
	// the same pixel units as the pitch
	SyncSD float64

	// SpaceSD measures how consistently word starts align to the cell
	// grid, as a percentage of the pitch (0-50)
	SpaceSD float64

	// MidCuts counts cheap cuts: boundaries placed in blank spans so wide
	// that their position carries no evidence
	MidCuts int
}

// CellFitter fits a character-cell grid at a candidate pitch to a row's
// glyph boxes and vertical ink projection. Implementations must be
// deterministic for identical inputs.
type CellFitter interface {
	Fit(boxes []page.Rectangle, proj *page.Projection, pitch, spaceThreshold float64) FitResult
}

// newCellFitter selects the fitting strategy for this run. This is the only
// place the linear flag is consulted.
func newCellFitter(tun *Tunables) CellFitter {
	if tun.Sync.Linear {
		return &linearFitter{tun: tun}
	}
	return &chopFitter{tun: tun}
}

// noFit is the result for degenerate inputs: no cells and an unusable
// rating
func noFit(pitch float64) FitResult {
	return FitResult{Pitch: pitch, SyncSD: math.Inf(1), SpaceSD: 50}
}

// linearFitter fits the whole row at once: it folds the ink projection
// modulo each candidate pitch and picks the pitch and phase whose boundary
// columns carry the least ink.
type linearFitter struct {
	tun *Tunables
}

func (f *linearFitter) Fit(boxes []page.Rectangle, proj *page.Projection, pitch, spaceThreshold float64) FitResult {
	left, right := boxSpan(boxes)
	if len(boxes) == 0 || proj == nil || right-left < 2 || pitch < 3 {
		return noFit(pitch)
	}

	base := int(math.Round(pitch))
	bestPitch := 0
	bestPhase := 0
	bestCost := math.Inf(1)
	for delta := -f.tun.Sync.PitchRange; delta <= f.tun.Sync.PitchRange; delta++ {
		p := base + delta
		if p < 3 {
			continue
		}
		fold := make([]float64, p)
		for x := left; x < right; x++ {
			fold[(x-left)%p] += float64(proj.At(x))
		}
		// Mean ink per boundary column, so different pitches compare
		// fairly despite folding different column counts together.
		columns := float64((right-left+p-1)/p)
		for phase := 0; phase < p; phase++ {
			cost := fold[phase] / columns
			if cost < bestCost {
				bestCost = cost
				bestPitch = p
				bestPhase = phase
			}
		}
	}
	if bestPitch == 0 {
		return noFit(pitch)
	}

	start := left + bestPhase
	if start > left {
		start -= bestPitch
	}
	var cells []int
	for x := start; x < right+bestPitch; x += bestPitch {
		cells = append(cells, x)
	}

	fp := float64(bestPitch)
	return FitResult{
		Pitch:   fp,
		Cells:   cells,
		SyncSD:  inkFitSD(proj, cells, fp),
		SpaceSD: spaceAlignSD(boxes, cells, fp, spaceThreshold),
		MidCuts: countCheapCuts(proj, cells, fp),
	}
}

// chopFitter is the word-by-word search: within each word it places every
// interior boundary at the lowest-ink column near its expected position,
// then merges the word grids and interpolates boundaries across the spaces
// between words.
type chopFitter struct {
	tun *Tunables
}

func (f *chopFitter) Fit(boxes []page.Rectangle, proj *page.Projection, pitch, spaceThreshold float64) FitResult {
	if len(boxes) == 0 || proj == nil || pitch < 3 {
		return noFit(pitch)
	}

	var cells []int
	for _, w := range wordRanges(boxes, spaceThreshold) {
		wordCells := f.fitWord(boxes[w[0]:w[1]], proj, pitch)
		cells = mergeCellGrids(cells, wordCells, pitch)
	}
	if len(cells) < 2 {
		return noFit(pitch)
	}
	cells = interpolateCells(cells, pitch)

	// The fitted boundaries re-estimate the pitch: the median spacing of
	// consecutive cells.
	var spacings []float64
	for i := 1; i < len(cells); i++ {
		spacings = append(spacings, float64(cells[i]-cells[i-1]))
	}
	fitted := sampleMedian(spacings)
	if fitted < 3 {
		fitted = pitch
	}

	return FitResult{
		Pitch:   fitted,
		Cells:   cells,
		SyncSD:  gridDeviationSD(cells, fitted),
		SpaceSD: spaceAlignSD(boxes, cells, fitted, spaceThreshold),
		MidCuts: countCheapCuts(proj, cells, fitted),
	}
}

// fitWord places cell boundaries over one word: one boundary per pitch step
// across the word's span, each sliding to the lowest-ink column within half
// a pitch of its expected position, nearer columns winning ties.
func (f *chopFitter) fitWord(boxes []page.Rectangle, proj *page.Projection, pitch float64) []int {
	left, right := boxSpan(boxes)
	n := int(math.Round(float64(right-left) / pitch))
	if n < 1 {
		n = 1
	}

	var cells []int
	reach := int(pitch/2) - 1
	if reach < 1 {
		reach = 1
	}
	for k := 0; k <= n; k++ {
		target := left + int(math.Round(float64(k)*pitch))
		best := target
		bestInk := proj.At(target)
		for d := 1; d <= reach && bestInk > 0; d++ {
			if ink := proj.At(target - d); ink < bestInk {
				best = target - d
				bestInk = ink
			}
			if ink := proj.At(target + d); ink < bestInk {
				best = target + d
				bestInk = ink
			}
		}
		cells = append(cells, best)
	}
	return cells
}

// mergeCellGrids appends a word's cells to the row grid, averaging any
// boundary that lands within half a pitch of the previous grid's last
// boundary
func mergeCellGrids(grid, word []int, pitch float64) []int {
	for _, c := range word {
		if n := len(grid); n > 0 && float64(c-grid[n-1]) < pitch/2 {
			grid[n-1] = (grid[n-1] + c) / 2
			continue
		}
		grid = append(grid, c)
	}
	return grid
}

// interpolateCells fills gaps wider than 1.5 pitches with evenly spaced
// faked boundaries so the grid covers inter-word spaces
func interpolateCells(cells []int, pitch float64) []int {
	out := []int{cells[0]}
	for i := 1; i < len(cells); i++ {
		span := float64(cells[i] - cells[i-1])
		steps := int(math.Round(span / pitch))
		for k := 1; k < steps; k++ {
			out = append(out, cells[i-1]+int(math.Round(float64(k)*span/float64(steps))))
		}
		out = append(out, cells[i])
	}
	return out
}

// inkFitSD is the linear fitter's rating: for every boundary, the distance
// to the nearest clear (low-ink) column within half a pitch, RMS over all
// boundaries. A perfectly synchronized grid puts every boundary in an
// inter-character gap and scores zero.
func inkFitSD(proj *page.Projection, cells []int, pitch float64) float64 {
	if len(cells) == 0 {
		return math.Inf(1)
	}
	low := clearThreshold(proj)
	reach := int(pitch / 2)
	sum := 0.0
	for _, c := range cells {
		err := float64(reach)
		for d := 0; d <= reach; d++ {
			if float64(proj.At(c-d)) <= low || float64(proj.At(c+d)) <= low {
				err = float64(d)
				break
			}
		}
		sum += err * err
	}
	return math.Sqrt(sum / float64(len(cells)))
}

// gridDeviationSD is the chop fitter's rating: the RMS deviation of the
// fitted boundaries from the best uniform grid at the fitted pitch.
func gridDeviationSD(cells []int, pitch float64) float64 {
	if len(cells) < 2 || pitch <= 0 {
		return math.Inf(1)
	}
	residuals := make([]float64, len(cells))
	mean := 0.0
	for i, c := range cells {
		offset := float64(c - cells[0])
		k := math.Round(offset / pitch)
		residuals[i] = offset - k*pitch
		mean += residuals[i]
	}
	mean /= float64(len(cells))
	sum := 0.0
	for _, r := range residuals {
		d := r - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(cells)))
}

// spaceAlignSD measures word-start alignment: the RMS offset of each word's
// left edge from the nearest cell boundary, as a percentage of the pitch.
// Rows with fewer than two words carry no space evidence and score zero.
func spaceAlignSD(boxes []page.Rectangle, cells []int, pitch float64, spaceThreshold float64) float64 {
	words := wordRanges(boxes, spaceThreshold)
	if len(words) < 2 || len(cells) == 0 || pitch <= 0 {
		return 0
	}
	anchor := float64(cells[0])
	sum := 0.0
	n := 0
	for _, w := range words[1:] {
		start := float64(boxes[w[0]].X)
		r := math.Mod(start-anchor, pitch)
		if r < 0 {
			r += pitch
		}
		if r > pitch/2 {
			r = pitch - r
		}
		pct := r / pitch * 100
		sum += pct * pct
		n++
	}
	return math.Sqrt(sum / float64(n))
}

// countCheapCuts counts boundaries sitting in clear spans wider than the
// pitch: anywhere in such a span would have cost the same, so the cut
// carries no synchronization evidence
func countCheapCuts(proj *page.Projection, cells []int, pitch float64) int {
	low := clearThreshold(proj)
	count := 0
	for _, c := range cells {
		if float64(proj.At(c)) > low {
			continue
		}
		span := 1
		for x := c - 1; x >= proj.Left() && float64(proj.At(x)) <= low; x-- {
			span++
		}
		for x := c + 1; x < proj.Right() && float64(proj.At(x)) <= low; x++ {
			span++
		}
		if float64(span) > pitch {
			count++
		}
	}
	return count
}

// clearThreshold returns the ink level at or below which a column counts as
// clear: a tenth of the mean inked-column density
func clearThreshold(proj *page.Projection) float64 {
	if proj == nil {
		return 0
	}
	total := 0
	inked := 0
	for x := proj.Left(); x < proj.Right(); x++ {
		if v := proj.At(x); v > 0 {
			total += v
			inked++
		}
	}
	if inked == 0 {
		return 0
	}
	return float64(total) / float64(inked) * 0.1
}
