package pitch

import (
	"math"
	"testing"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

func TestGlyphs_MergesJoinedBlobs(t *testing.T) {
	blobs := []page.Blob{
		{Box: page.NewRectangle(0, 5, 10, 10)},
		{Box: page.NewRectangle(2, 0, 4, 4), JoinedToPrev: true}, // dot over the first glyph
		{Box: page.NewRectangle(15, 5, 10, 10)},
	}

	out := glyphs(blobs)
	if len(out) != 2 {
		t.Fatalf("expected 2 glyphs, got %d", len(out))
	}
	if out[0].Y != 0 || out[0].Bottom() != 15 {
		t.Errorf("expected first glyph to absorb the joined blob, got %+v", out[0])
	}
	if out[1].X != 15 {
		t.Errorf("expected second glyph at x=15, got %d", out[1].X)
	}
}

func TestGlyphs_LeadingJoinedBlobStandsAlone(t *testing.T) {
	blobs := []page.Blob{
		{Box: page.NewRectangle(0, 0, 5, 5), JoinedToPrev: true},
	}
	if got := glyphs(blobs); len(got) != 1 {
		t.Errorf("expected 1 glyph, got %d", len(got))
	}
}

func TestMergeClose(t *testing.T) {
	boxes := []page.Rectangle{
		page.NewRectangle(0, 0, 4, 10),
		page.NewRectangle(6, 0, 4, 10),  // gap 2, merges
		page.NewRectangle(20, 0, 4, 10), // gap 10, stays
	}

	out := mergeClose(boxes, 3)
	if len(out) != 2 {
		t.Fatalf("expected 2 boxes after merging, got %d", len(out))
	}
	if out[0].X != 0 || out[0].Right() != 10 {
		t.Errorf("expected merged box [0, 10), got [%d, %d)", out[0].X, out[0].Right())
	}

	// A zero tolerance disables merging.
	if got := mergeClose(boxes, 0); len(got) != 3 {
		t.Errorf("expected no merging with zero gap, got %d boxes", len(got))
	}
}

func TestWordRanges(t *testing.T) {
	boxes := []page.Rectangle{
		page.NewRectangle(0, 0, 10, 10),
		page.NewRectangle(14, 0, 10, 10), // gap 4
		page.NewRectangle(40, 0, 10, 10), // gap 16: word break
		page.NewRectangle(54, 0, 10, 10), // gap 4
	}

	words := wordRanges(boxes, 8)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0] != [2]int{0, 2} || words[1] != [2]int{2, 4} {
		t.Errorf("unexpected word ranges %v", words)
	}

	if got := wordRanges(nil, 8); len(got) != 0 {
		t.Errorf("expected no words for no boxes, got %v", got)
	}
}

func TestPitchSamples_SkipsSpaces(t *testing.T) {
	boxes := []page.Rectangle{
		page.NewRectangle(0, 0, 10, 10),
		page.NewRectangle(14, 0, 10, 10), // within word
		page.NewRectangle(42, 0, 10, 10), // space gap 18
	}

	samples := pitchSamples(boxes, 8)
	if len(samples) != 1 {
		t.Fatalf("expected 1 within-word sample, got %d", len(samples))
	}
	if samples[0] != 14 {
		t.Errorf("expected center distance 14, got %f", samples[0])
	}
}

func TestGapSamples(t *testing.T) {
	boxes := []page.Rectangle{
		page.NewRectangle(0, 0, 10, 10),
		page.NewRectangle(14, 0, 10, 10),
		page.NewRectangle(27, 0, 10, 10),
	}
	got := gapSamples(boxes)
	if len(got) != 2 || got[0] != 4 || got[1] != 3 {
		t.Errorf("unexpected gap samples %v", got)
	}
}

func TestSampleIQR(t *testing.T) {
	if got := sampleIQR(nil); !math.IsInf(got, 1) {
		t.Errorf("expected infinite IQR for no samples, got %f", got)
	}
	if got := sampleIQR([]float64{5, 5, 5, 5}); got != 0 {
		t.Errorf("expected zero IQR for constant samples, got %f", got)
	}
	got := sampleIQR([]float64{1, 2, 3, 4, 5})
	if got != 2 {
		t.Errorf("expected IQR 2, got %f", got)
	}
}

func TestSampleMedian(t *testing.T) {
	if got := sampleMedian(nil); got != 0 {
		t.Errorf("expected 0 median for no samples, got %f", got)
	}
	if got := sampleMedian([]float64{3, 1, 2}); got != 2 {
		t.Errorf("expected median 2, got %f", got)
	}
	if got := sampleMedian([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("expected interpolated median 2.5, got %f", got)
	}
}
