package pitch

import (
	"testing"

	"go.uber.org/zap"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

func TestTryWholeDocument_NeverAccepts(t *testing.T) {
	tun := defaults()
	doc := &documentAggregator{tun: tun, fitter: newCellFitter(tun), log: zap.NewNop().Sugar()}

	pg := singleBlockPage(
		typewriterRow("xxxxxxxxxx", 10, 4, 14),
		typewriterRow("xxxxxxxxxx", 10, 4, 14),
	)
	pg.Gradient = 0.01
	pg.TopRight = page.NewRectangle(160, 0, 0, 0)

	if doc.tryWholeDocument(pg) {
		t.Errorf("expected the document attempt to stay diagnostic")
	}

	// The attempt must not write any row state.
	for _, row := range pg.Blocks[0].Rows {
		if row.Decision != page.Dunno || row.FixedPitch != 0 || len(row.CharCells) != 0 {
			t.Errorf("expected rows untouched, got %s pitch %f", row.Decision, row.FixedPitch)
		}
	}
}

func TestTryWholeDocument_EmptyPage(t *testing.T) {
	tun := defaults()
	doc := &documentAggregator{tun: tun, fitter: newCellFitter(tun), log: zap.NewNop().Sugar()}

	if doc.tryWholeDocument(&page.Page{}) {
		t.Errorf("expected false on an empty page")
	}
}
