package pitch

import (
	"math"

	"github.com/pitchgrid/pitchgrid/internal/page"
	"github.com/pitchgrid/pitchgrid/internal/stats"
)

// gapEstimates holds the four working gap sizes a row's gap clustering
// produces: the non-space and space gap under a proportional reading, and
// the same pair under a fixed-pitch reading.
type gapEstimates struct {
	prNonSpace float64
	prSpace    float64
	fpNonSpace float64
	fpSpace    float64
}

// computeGapEstimates builds the clustered gap histogram for a row and
// derives the four working estimates. It reports false when the row has too
// few usable gap samples to analyze, in which case the row must wait for
// reconciliation.
func computeGapEstimates(row *page.Row, tun *Tunables) (gapEstimates, bool) {
	boxes := glyphs(row.Blobs)
	maxWidth := int(math.Ceil(row.XHeight * tun.Gap.MaxSpaceFactor))
	if maxWidth < 1 || len(boxes) < 2 {
		return gapEstimates{}, false
	}

	hist := stats.NewHistogram(0, maxWidth)
	for i := 1; i < len(boxes); i++ {
		hist.Add(boxes[i].X-boxes[i-1].Right(), 1)
	}
	if int(hist.Count()) < tun.Gap.MinSamples {
		return gapEstimates{}, false
	}

	hist.Smooth(int(math.Round(row.XHeight * tun.Gap.SmoothFactor)))

	// Re-cluster with a widening ratio until the cluster count settles or
	// fits under the cap.
	ratio := tun.Gap.ClusterRatio
	clusters := hist.Clusters(ratio)
	for prev := -1; len(clusters) != prev && len(clusters) > tun.Gap.MaxClusters; {
		prev = len(clusters)
		ratio *= tun.Gap.ClusterWiden
		clusters = hist.Clusters(ratio)
	}

	reps := make([]float64, len(clusters))
	for i, c := range clusters {
		reps[i] = c.Median
	}

	est := gapEstimates{}
	prNonSpaceMax := row.XHeight * tun.Gap.NonSpaceFactor
	prSpaceMin := row.XHeight * tun.Gap.MinSpaceFactor
	fpSplit := row.XHeight * tun.Gap.FixedSpaceFactor

	// Proportional reading: the largest cluster under the non-space bound
	// and the smallest at or above the interword-space bound.
	est.prNonSpace = largestBelow(reps, prNonSpaceMax, prNonSpaceMax)
	est.prSpace = smallestAtLeast(reps, prSpaceMin, row.XHeight)

	// Fixed reading: split the clusters around the single fixed-space
	// bound.
	est.fpNonSpace = largestBelow(reps, fpSplit, fpSplit)
	est.fpSpace = smallestAtLeast(reps, fpSplit, row.XHeight)

	return est, true
}

// largestBelow returns the largest representative strictly below the bound,
// or the fallback when none qualifies
func largestBelow(reps []float64, bound, fallback float64) float64 {
	out := fallback
	found := false
	for _, r := range reps {
		if r < bound && (!found || r > out) {
			out = r
			found = true
		}
	}
	return out
}

// smallestAtLeast returns the smallest representative at or above the bound,
// or the fallback when none qualifies
func smallestAtLeast(reps []float64, bound, fallback float64) float64 {
	out := fallback
	found := false
	for _, r := range reps {
		if r >= bound && (!found || r < out) {
			out = r
			found = true
		}
	}
	return out
}
