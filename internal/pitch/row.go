package pitch

import (
	"math"

	"go.uber.org/zap"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

// Space-alignment gates for the non-legacy fixed decision, as percentages
// of the pitch.
const (
	spaceSDFixedGate = 20
	spaceSDZeroGate  = 10
)

// rowEstimator runs the per-row pitch decision: gap clustering, the
// dot-matrix versus plain tuning comparison, and the final full-row fit
// that settles the decision state.
type rowEstimator struct {
	tun    *Tunables
	fitter CellFitter
	log    *zap.SugaredLogger
}

// tuneResult captures one tuning variant's self-consistency measures.
type tuneResult struct {
	pitch    float64
	pitchIQR float64
	gapIQR   float64
	boxes    []page.Rectangle
}

// estimateRow classifies one row, writing its decision, pitch, cell grid
// and spacing thresholds. Rows it cannot analyze stay at Dunno for the
// reconciliation pass.
func (e *rowEstimator) estimateRow(row *page.Row, block *page.Block) {
	est, ok := computeGapEstimates(row, e.tun)
	row.PRNonSpace = est.prNonSpace
	row.PRSpace = est.prSpace
	row.FPNonSpace = est.fpNonSpace
	row.FPSpace = est.fpSpace
	if !ok {
		row.Decision = page.Dunno
		row.FixedPitch = 0
		row.CharCells = nil
		e.log.Debugw("row gap analysis failed", "blobs", len(row.Blobs))
		return
	}

	// The fixed-pitch space gap is the initial pitch guess, clamped when
	// implausibly large against the x-height.
	guess := est.fpSpace
	if guess > row.XHeight*(1+e.tun.Decide.PitchGuessLimit) {
		guess = row.XHeight
	}
	nonSpace := est.fpNonSpace
	if nonSpace > guess {
		nonSpace = guess
	}
	minSpace := (guess + nonSpace) / 2

	plain := e.tunePass(glyphs(row.Blobs), row.Projection, guess, minSpace)
	dm := e.tunePass(mergeClose(glyphs(row.Blobs), e.tun.Sync.DMGap), row.Projection, guess, minSpace)

	maxWidth := row.XHeight * e.tun.Gap.MaxSpaceFactor
	if plain.pitchIQR > maxWidth && dm.pitchIQR > maxWidth {
		row.Decision = page.Dunno
		row.FixedPitch = 0
		row.CharCells = nil
		e.log.Debugw("row pitch too inconsistent", "plain_iqr", plain.pitchIQR, "dm_iqr", dm.pitchIQR)
		return
	}

	// Cross-compare the two variants: each one's pitch spread against the
	// other's gap spread. The tighter product wins.
	sel := plain
	row.UsedDMModel = false
	if plain.pitchIQR*dm.gapIQR > dm.pitchIQR*plain.gapIQR {
		sel = dm
		row.UsedDMModel = true
	}

	if sel.pitchIQR < sel.gapIQR*e.tun.Decide.IQRRatio &&
		sel.pitchIQR < row.XHeight*e.tun.Decide.IQRCap &&
		sel.pitch < row.XHeight*e.tun.Decide.MaxPitchMultiple {
		row.Decision = page.MaybeFixed
	} else {
		row.Decision = page.MaybeProp
	}

	row.FixedPitch = sel.pitch
	deriveFixedSpacing(row, sel.pitch, nonSpace)

	e.fixedPitchRow(row, block, sel)
}

// tunePass fits one variant's boxes at the pitch guess and measures its
// gap and pitch spreads.
func (e *rowEstimator) tunePass(boxes []page.Rectangle, proj *page.Projection, guess, minSpace float64) tuneResult {
	fit := e.fitter.Fit(boxes, proj, guess, minSpace)
	pitch := fit.Pitch
	if pitch <= 0 || math.IsInf(fit.SyncSD, 1) {
		pitch = guess
	}
	return tuneResult{
		pitch:    pitch,
		pitchIQR: sampleIQR(pitchSamples(boxes, minSpace)),
		gapIQR:   sampleIQR(gapSamples(boxes)),
		boxes:    boxes,
	}
}

// fixedPitchRow re-fits the whole row at the chosen pitch and upgrades or
// downgrades the provisional decision from the authoritative sync ratings.
func (e *rowEstimator) fixedPitchRow(row *page.Row, block *page.Block, sel tuneResult) {
	if block.NonText || e.tun.Decide.AllProp {
		row.Decision = page.DefProp
		derivePropSpacing(row)
		return
	}

	fit := e.fitter.Fit(sel.boxes, row.Projection, row.FixedPitch, row.SpaceThreshold)
	pitch := fit.Pitch
	if pitch <= 0 || math.IsInf(fit.SyncSD, 1) {
		row.Decision = page.Dunno
		derivePropSpacing(row)
		return
	}
	sd := fit.SyncSD
	spSD := fit.SpaceSD
	legacy := e.tun.Decide.LegacyGate

	switch {
	case sd < e.tun.Decide.PitchSDThreshold*pitch &&
		(legacy || row.UsedDMModel || spSD > spaceSDFixedGate ||
			(sd == 0 && spSD > spaceSDZeroGate)):
		// All-caps rows have no ascender/descender texture to anchor the
		// grid, so they never earn the definite state.
		if sd < e.tun.Decide.DefFixedLimit*pitch && !row.AllCaps {
			row.Decision = page.DefFixed
		} else {
			row.Decision = page.MaybeFixed
		}
		row.FixedPitch = pitch
		row.CharCells = fit.Cells
		deriveFixedSpacing(row, pitch, row.MaxNonSpace)

	case legacy || spSD > spaceSDFixedGate || fit.MidCuts > 0 ||
		sd >= e.tun.Decide.PitchSDThreshold*pitch:
		if sd < e.tun.Decide.DefPropLimit*pitch {
			row.Decision = page.MaybeProp
		} else {
			row.Decision = page.DefProp
		}
		derivePropSpacing(row)

	default:
		row.Decision = page.Dunno
		derivePropSpacing(row)
	}

	e.log.Debugw("row pitch decided",
		"decision", row.Decision.String(),
		"pitch", row.FixedPitch,
		"sync_sd", sd,
		"space_sd", spSD,
		"mid_cuts", fit.MidCuts,
		"dm_model", row.UsedDMModel,
	)
}

// deriveFixedSpacing writes the word-segmentation thresholds implied by a
// fixed pitch and its non-space gap estimate
func deriveFixedSpacing(row *page.Row, pitch, nonSpace float64) {
	row.KernSize = nonSpace
	row.MaxNonSpace = nonSpace
	row.MinSpace = (pitch + nonSpace) / 2
	row.SpaceThreshold = (row.MaxNonSpace + row.MinSpace) / 2
	row.SpaceSize = pitch
}

// derivePropSpacing writes the proportional thresholds and clears the fixed
// outputs so the row satisfies the proportional invariant
func derivePropSpacing(row *page.Row) {
	row.KernSize = row.PRNonSpace
	row.MaxNonSpace = row.PRNonSpace
	row.MinSpace = (row.PRNonSpace + row.PRSpace) / 2
	row.SpaceThreshold = (row.MaxNonSpace + row.MinSpace) / 2
	row.SpaceSize = row.PRSpace
	row.FixedPitch = 0
	row.CharCells = nil
}
