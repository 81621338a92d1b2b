package pitch

import (
	"testing"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

func TestComputeGapEstimates_UniformGaps(t *testing.T) {
	row := typewriterRow("xxxxxxxxxx", 10, 4, 14)
	tun := defaults()

	est, ok := computeGapEstimates(row, tun)
	if !ok {
		t.Fatalf("expected gap analysis to succeed")
	}
	// All gaps are 4: the non-space estimate sits on that cluster and no
	// space cluster exists, so the space estimates fall back to the x-height.
	if est.fpNonSpace < 3 || est.fpNonSpace > 6 {
		t.Errorf("expected fixed non-space near 4, got %f", est.fpNonSpace)
	}
	if est.fpSpace != 14 {
		t.Errorf("expected fixed space fallback to x-height, got %f", est.fpSpace)
	}
	if est.prSpace != 14 {
		t.Errorf("expected proportional space fallback to x-height, got %f", est.prSpace)
	}
}

func TestComputeGapEstimates_FindsSpaceCluster(t *testing.T) {
	row := typewriterRow("xxxxx xxxx", 10, 4, 14)
	tun := defaults()

	est, ok := computeGapEstimates(row, tun)
	if !ok {
		t.Fatalf("expected gap analysis to succeed")
	}
	// The blank character cell produces an 18-wide gap cluster.
	if est.fpSpace < 15 || est.fpSpace > 20 {
		t.Errorf("expected fixed space near 18, got %f", est.fpSpace)
	}
	if est.fpNonSpace >= est.fpSpace {
		t.Errorf("expected non-space %f below space %f", est.fpNonSpace, est.fpSpace)
	}
}

func TestComputeGapEstimates_TooFewSamples(t *testing.T) {
	tun := defaults()

	tests := []struct {
		name string
		row  *page.Row
	}{
		{"single blob", typewriterRow("x", 10, 4, 14)},
		{"two blobs", typewriterRow("xx", 10, 4, 14)},
		{"three blobs", typewriterRow("xxx", 10, 4, 14)},
		{"no blobs", page.NewRow(nil, page.Baseline{}, 14, 4)},
		{"zero x-height", page.NewRow([]page.Blob{
			{Box: page.NewRectangle(0, 0, 10, 10)},
			{Box: page.NewRectangle(14, 0, 10, 10)},
		}, page.Baseline{}, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := computeGapEstimates(tt.row, tun); ok {
				t.Errorf("expected gap analysis to fail")
			}
		})
	}
}

func TestComputeGapEstimates_FourBlobsSuffice(t *testing.T) {
	row := typewriterRow("xxxx", 10, 4, 14)
	if _, ok := computeGapEstimates(row, defaults()); !ok {
		t.Errorf("expected three gap samples to be enough")
	}
}

func TestLargestBelowSmallestAtLeast(t *testing.T) {
	reps := []float64{3, 7, 18}

	if got := largestBelow(reps, 10, 99); got != 7 {
		t.Errorf("expected largestBelow = 7, got %f", got)
	}
	if got := largestBelow(reps, 2, 99); got != 99 {
		t.Errorf("expected fallback 99, got %f", got)
	}
	if got := smallestAtLeast(reps, 10, 99); got != 18 {
		t.Errorf("expected smallestAtLeast = 18, got %f", got)
	}
	if got := smallestAtLeast(reps, 20, 99); got != 99 {
		t.Errorf("expected fallback 99, got %f", got)
	}
	// The bound is inclusive on the at-least side.
	if got := smallestAtLeast(reps, 18, 99); got != 18 {
		t.Errorf("expected inclusive bound to match 18, got %f", got)
	}
}
