package pitch

import (
	"math"

	"go.uber.org/zap"

	"github.com/pitchgrid/pitchgrid/internal/page"
	"github.com/pitchgrid/pitchgrid/internal/stats"
)

// documentAggregator attempts a whole-document fixed-pitch call before the
// per-block path. It merges every row's ink projection after correcting for
// the page skew, estimates one document pitch, and fits it once.
//
// The attempt is diagnostic: no success threshold is defined for the
// document-level sync rating, so it reports its findings and always lets
// per-block analysis run.
type documentAggregator struct {
	tun    *Tunables
	fitter CellFitter
	log    *zap.SugaredLogger
}

// tryWholeDocument returns true only if the document-level analysis decided
// the page conclusively. It currently never does.
func (d *documentAggregator) tryWholeDocument(pg *page.Page) bool {
	shift := pg.Gradient / (pg.Gradient*pg.Gradient + 1)

	maxXHeight := 0.0
	for _, block := range pg.Blocks {
		for _, row := range block.Rows {
			if row.XHeight > maxXHeight {
				maxXHeight = row.XHeight
			}
		}
	}
	if maxXHeight <= 0 {
		return false
	}

	master := page.NewProjection(0, nil)
	pitchHist := stats.NewHistogram(0, int(math.Ceil(maxXHeight*d.tun.Gap.MaxSpaceFactor)))
	refY := float64(pg.TopRight.Y)
	merged := false
	for _, block := range pg.Blocks {
		if block.NonText {
			continue
		}
		for _, row := range block.Rows {
			if row.Projection == nil {
				continue
			}
			// Skew displaces each row's projection horizontally in
			// proportion to its baseline's distance from the page top.
			dx := int(math.Round(shift * (row.Baseline.Intercept - refY)))
			merged = true
			master.Add(row.Projection, dx)

			if est, ok := computeGapEstimates(row, d.tun); ok {
				guess := est.fpSpace
				if guess > row.XHeight*(1+d.tun.Decide.PitchGuessLimit) {
					guess = row.XHeight
				}
				pitchHist.Add(int(math.Round(guess)), 1)
			}
		}
	}
	if !merged || pitchHist.Count() == 0 {
		return false
	}

	docPitch := pitchHist.Median()
	span := page.NewRectangle(master.Left(), 0, master.Right()-master.Left(), int(maxXHeight))
	fit := d.fitter.Fit([]page.Rectangle{span}, master, docPitch, docPitch*0.75)

	d.log.Infow("whole-document pitch attempt",
		"pitch", docPitch,
		"sync_sd", fit.SyncSD,
		"mid_cuts", fit.MidCuts,
	)
	return false
}
