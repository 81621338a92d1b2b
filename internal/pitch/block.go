package pitch

import (
	"go.uber.org/zap"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

// blockAggregator folds per-row decisions into a block-level decision by
// vote counting with the asymmetric veto rule.
type blockAggregator struct {
	tun *Tunables
	log *zap.SugaredLogger
}

// voteCounts tallies rows per decision state
type voteCounts [page.CorrFixed + 1]int

// aggregate runs the row estimator over every row of the block and then
// settles the block decision. Non-text blocks are skipped entirely.
func (a *blockAggregator) aggregate(block *page.Block, est *rowEstimator) {
	if block.NonText {
		return
	}

	var counts voteCounts
	for _, row := range block.Rows {
		est.estimateRow(row, block)
		counts[row.Decision]++
	}

	block.Decision = voteDecision(counts, a.tun.Vote.VetoPower)
	a.applyBlockDefaults(block)

	if a.tun.Vote.DebugBlockStats {
		a.log.Infow("block pitch votes",
			"decision", block.Decision.String(),
			"def_fixed", counts[page.DefFixed],
			"maybe_fixed", counts[page.MaybeFixed],
			"def_prop", counts[page.DefProp],
			"maybe_prop", counts[page.MaybeProp],
			"dunno", counts[page.Dunno],
			"pitch", block.FixedPitch,
		)
	}
}

// voteDecision applies the veto rule: a definite side wins only by
// exceeding the opposite definite count times the veto power; failing that,
// conflicting definite evidence is a standoff, and the same rule is retried
// on the maybe counts.
func voteDecision(counts voteCounts, veto int) page.Decision {
	defFixed := counts[page.DefFixed]
	defProp := counts[page.DefProp]
	switch {
	case defFixed > defProp*veto:
		return page.DefFixed
	case defProp > defFixed*veto:
		return page.DefProp
	case defFixed > 0 && defProp > 0:
		return page.Dunno
	}

	maybeFixed := counts[page.MaybeFixed]
	maybeProp := counts[page.MaybeProp]
	switch {
	case maybeFixed > maybeProp*veto:
		return page.MaybeFixed
	case maybeProp > maybeFixed*veto:
		return page.MaybeProp
	}
	return page.Dunno
}

// applyBlockDefaults derives the block-wide pitch and spacing defaults from
// its rows, medians over the fixed-decided rows where available
func (a *blockAggregator) applyBlockDefaults(block *page.Block) {
	var pitches, kerns, spaces []float64
	var prNon, prSpace []float64
	for _, row := range block.Rows {
		if row.Decision.IsFixed() && row.FixedPitch > 0 {
			pitches = append(pitches, row.FixedPitch)
			kerns = append(kerns, row.KernSize)
			spaces = append(spaces, row.SpaceSize)
		}
		if row.PRSpace > 0 {
			prNon = append(prNon, row.PRNonSpace)
			prSpace = append(prSpace, row.PRSpace)
		}
	}

	block.PRNonSpace = sampleMedian(prNon)
	block.PRSpace = sampleMedian(prSpace)

	if block.Decision.IsFixed() && len(pitches) > 0 {
		block.FixedPitch = sampleMedian(pitches)
		block.KernSize = sampleMedian(kerns)
		block.SpaceSize = sampleMedian(spaces)
		block.MaxNonSpace = block.KernSize
		block.MinSpace = (block.FixedPitch + block.KernSize) / 2
		return
	}
	block.FixedPitch = 0
	block.KernSize = block.PRNonSpace
	block.MaxNonSpace = block.PRNonSpace
	block.MinSpace = (block.PRNonSpace + block.PRSpace) / 2
	block.SpaceSize = block.PRSpace
}
