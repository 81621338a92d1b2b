package pitch

import (
	"go.uber.org/zap"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

// reconciler is the final correction pass: rows without a definite local
// decision borrow from similar rows in the same block, then from similar
// rows anywhere on the page, and otherwise settle on proportional. After it
// runs no row is left at Dunno.
type reconciler struct {
	tun    *Tunables
	fitter CellFitter
	log    *zap.SugaredLogger
}

// rowSnapshot freezes the fields reconciliation reads, so every row is
// corrected against the same pre-pass state regardless of write order.
type rowSnapshot struct {
	decision page.Decision
	pitch    float64
	xHeight  float64
	ascRise  float64
	allCaps  bool
	block    int
}

// reconcilePage corrects every row of the page that lacks a definite
// decision. Non-text blocks neither vote nor get corrected.
func (r *reconciler) reconcilePage(pg *page.Page) {
	var rows []*page.Row
	var snaps []rowSnapshot
	for bi, block := range pg.Blocks {
		if block.NonText {
			continue
		}
		for _, row := range block.Rows {
			rows = append(rows, row)
			snaps = append(snaps, rowSnapshot{
				decision: row.Decision,
				pitch:    row.FixedPitch,
				xHeight:  row.XHeight,
				ascRise:  row.AscRise,
				allCaps:  row.AllCaps,
				block:    bi,
			})
		}
	}

	for i, row := range rows {
		// Definite rows keep their local evidence; corrected rows are the
		// settled output of an earlier pass, so re-running changes nothing.
		switch snaps[i].decision {
		case page.Dunno, page.MaybeFixed, page.MaybeProp:
			r.correctRow(row, i, snaps)
		}
	}
}

// correctRow decides one row from the snapshot votes of all other rows.
func (r *reconciler) correctRow(row *page.Row, target int, snaps []rowSnapshot) {
	if len(row.Blobs) == 0 {
		// Degenerate geometry: nothing to fit a cell grid to, so the safe
		// default applies regardless of votes.
		r.correctToProp(row)
		return
	}

	veto := r.tun.Vote.VetoPower
	blockVotes, likeVotes, otherVotes := 0, 0, 0
	var blockPitches, likePitches []float64
	for j, snap := range snaps {
		if j == target {
			continue
		}
		w := voteWeight(snap.decision, veto)
		if !similarRows(snaps[target], snap, r.tun.Vote.SimilarityTol) {
			otherVotes += w
			continue
		}
		if snap.block == snaps[target].block {
			blockVotes += w
			if snap.decision.IsFixed() && snap.pitch > 0 {
				blockPitches = append(blockPitches, snap.pitch)
			}
		} else {
			likeVotes += w
			if snap.decision.IsFixed() && snap.pitch > 0 {
				likePitches = append(likePitches, snap.pitch)
			}
		}
	}

	switch {
	case blockVotes > veto:
		r.correctToFixed(row, sampleMedian(blockPitches))
	case likeVotes > 0:
		// The block alone is not decisive; similar rows elsewhere on the
		// page lend their pitch instead.
		r.correctToFixed(row, sampleMedian(likePitches))
	default:
		if blockVotes == 0 && likeVotes == 0 && otherVotes > 0 {
			r.log.Warnw("row corrected against the page trend",
				"decision", snaps[target].decision.String(),
				"other_votes", otherVotes,
			)
		}
		r.correctToProp(row)
	}
}

// voteWeight maps a decision state to its vote contribution: definite
// states carry the veto power, everything else decided carries one.
// Corrected states vote like maybes but are never re-corrected themselves.
func voteWeight(d page.Decision, veto int) int {
	switch d {
	case page.DefFixed:
		return veto
	case page.MaybeFixed, page.CorrFixed:
		return 1
	case page.DefProp:
		return -veto
	case page.MaybeProp, page.CorrProp:
		return -1
	default:
		return 0
	}
}

// similarRows reports whether two rows are close enough in letter size to
// borrow pitch evidence from each other. All-caps rows compare their full
// cap height; others compare x-height alone.
func similarRows(a, b rowSnapshot, tol float64) bool {
	if a.allCaps != b.allCaps {
		return false
	}
	sizeA := a.xHeight
	sizeB := b.xHeight
	if a.allCaps {
		sizeA += a.ascRise
		sizeB += b.ascRise
	}
	diff := sizeA - sizeB
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol*sizeA
}

// correctToFixed settles the row as corrected-fixed at the borrowed pitch,
// floored at the minimum credible pitch for the row's x-height, and fills
// in the cell grid if the estimator never built one.
func (r *reconciler) correctToFixed(row *page.Row, pitch float64) {
	if floor := row.XHeight * r.tun.Decide.MinPitchFactor; pitch < floor {
		pitch = floor
	}
	if pitch <= 0 {
		r.correctToProp(row)
		return
	}
	row.Decision = page.CorrFixed
	row.FixedPitch = pitch

	nonSpace := row.FPNonSpace
	if nonSpace <= 0 || nonSpace > pitch/2 {
		nonSpace = pitch / 4
	}
	deriveFixedSpacing(row, pitch, nonSpace)

	if len(row.CharCells) == 0 {
		fit := r.fitter.Fit(glyphs(row.Blobs), row.Projection, pitch, row.SpaceThreshold)
		row.CharCells = fit.Cells
	}
	if len(row.CharCells) == 0 {
		// Geometry too degenerate to fit: lay a uniform grid over the row so
		// a fixed decision always carries cells.
		box := row.Box()
		step := int(pitch)
		if step < 1 {
			step = 1
		}
		for x := box.X; x <= box.Right()+step; x += step {
			row.CharCells = append(row.CharCells, x)
		}
	}
}

// correctToProp settles the row as corrected-proportional
func (r *reconciler) correctToProp(row *page.Row) {
	row.Decision = page.CorrProp
	derivePropSpacing(row)
}
