// Package pitch implements fixed-pitch versus proportional spacing analysis
// for detected text rows: per-row gap clustering and cell fitting, block and
// document level aggregation, and a final cross-row reconciliation pass that
// leaves every row with a terminal decision and, for fixed-pitch rows, a
// character-cell grid.
package pitch

// GapTunables control the inter-blob gap clustering pass.
type GapTunables struct {
	// MaxSpaceFactor bounds the gap histogram: gaps of at least
	// xheight*MaxSpaceFactor are treated as layout-level, not word-level,
	// and discarded
	MaxSpaceFactor float64 `yaml:"max-space-factor"`

	// SmoothFactor scales the histogram box-filter half-width from the
	// row's x-height
	SmoothFactor float64 `yaml:"smooth-factor"`

	// ClusterRatio is the initial mean-ratio threshold for the greedy gap
	// clustering; ClusterWiden multiplies it on each re-clustering pass
	ClusterRatio float64 `yaml:"cluster-ratio"`
	ClusterWiden float64 `yaml:"cluster-widen"`

	// MaxClusters caps the number of gap clusters
	MaxClusters int `yaml:"max-clusters"`

	// MinSamples is the minimum number of usable gap samples; rows with
	// fewer cannot be gap-analyzed and stay undecided
	MinSamples int `yaml:"min-samples"`

	// NonSpaceFactor and MinSpaceFactor scale the proportional partition
	// thresholds from the x-height: clusters below xheight*NonSpaceFactor
	// are proportional non-space gaps, clusters at or above
	// xheight*MinSpaceFactor are proportional space gaps
	NonSpaceFactor float64 `yaml:"non-space-factor"`
	MinSpaceFactor float64 `yaml:"min-space-factor"`

	// FixedSpaceFactor scales the fixed-pitch partition threshold: clusters
	// below xheight*FixedSpaceFactor are fixed-pitch non-space gaps, the
	// rest are fixed-pitch space gaps
	FixedSpaceFactor float64 `yaml:"fixed-space-factor"`
}

// SyncTunables control the cell-boundary fitting search.
type SyncTunables struct {
	// Linear selects the fast folded-projection fitter; false selects the
	// per-word chop search
	Linear bool `yaml:"linear"`

	// PitchRange is the +/- pixel range of pitch deltas the fitters try
	// around the working pitch
	PitchRange int `yaml:"pitch-range"`

	// DMGap is the dot-matrix gap tolerance in pixels: blobs separated by
	// at most this are merged as fragments of one broken character
	DMGap int `yaml:"dm-gap"`
}

// DecideTunables control the per-row decision thresholds.
type DecideTunables struct {
	// PitchGuessLimit clamps implausible initial pitch guesses: a guess
	// above xheight*(1+PitchGuessLimit) is replaced by the x-height
	PitchGuessLimit float64 `yaml:"pitch-guess-limit"`

	// IQRRatio and IQRCap gate the provisional fixed classification: the
	// pitch IQR must be below gapIQR*IQRRatio and below xheight*IQRCap
	IQRRatio float64 `yaml:"iqr-ratio"`
	IQRCap   float64 `yaml:"iqr-cap"`

	// MaxPitchMultiple rejects pitches above xheight*MaxPitchMultiple
	MaxPitchMultiple float64 `yaml:"max-pitch-multiple"`

	// PitchSDThreshold, DefFixedLimit and DefPropLimit are the sync-SD
	// gates, all as fractions of the working pitch
	PitchSDThreshold float64 `yaml:"pitch-sd-threshold"`
	DefFixedLimit    float64 `yaml:"def-fixed-limit"`
	DefPropLimit     float64 `yaml:"def-prop-limit"`

	// MinPitchFactor floors a reconciled pitch at xheight*MinPitchFactor
	MinPitchFactor float64 `yaml:"min-pitch-factor"`

	// LegacyGate keeps the original decision gating that accepts a tight
	// sync SD on its own; with it off, fixed decisions additionally demand
	// dot-matrix or space-alignment evidence
	LegacyGate bool `yaml:"legacy-gate"`

	// AllProp forces every row to definitely-proportional
	AllProp bool `yaml:"all-prop"`

	// WholeDocFixed enables the experimental whole-document fixed-pitch
	// attempt before per-block analysis
	WholeDocFixed bool `yaml:"whole-doc-fixed"`
}

// VoteTunables control block aggregation and cross-row reconciliation.
type VoteTunables struct {
	// VetoPower is the asymmetric vote multiplier: definite decisions carry
	// this weight and a side must exceed the other by it to win
	VetoPower int `yaml:"veto-power"`

	// SimilarityTol is the fractional x-height tolerance for treating two
	// rows as similar during reconciliation
	SimilarityTol float64 `yaml:"similarity-tol"`

	// DebugBlockStats logs per-block vote tallies; it never affects the
	// decision
	DebugBlockStats bool `yaml:"debug-block-stats"`
}

// Tunables is the full immutable knob set for one analysis run. Components
// read it and never write it.
type Tunables struct {
	Gap    GapTunables    `yaml:"gap"`
	Sync   SyncTunables   `yaml:"sync"`
	Decide DecideTunables `yaml:"decide"`
	Vote   VoteTunables   `yaml:"vote"`
}

// DefaultTunables returns the stock tunable values.
func DefaultTunables() Tunables {
	return Tunables{
		Gap: GapTunables{
			MaxSpaceFactor:   3.5,
			SmoothFactor:     0.05,
			ClusterRatio:     1.3,
			ClusterWiden:     1.2,
			MaxClusters:      10,
			MinSamples:       3,
			NonSpaceFactor:   0.25,
			MinSpaceFactor:   0.6,
			FixedSpaceFactor: 0.75,
		},
		Sync: SyncTunables{
			Linear:     true,
			PitchRange: 2,
			DMGap:      3,
		},
		Decide: DecideTunables{
			PitchGuessLimit:  0.25,
			IQRRatio:         1.5,
			IQRCap:           0.20,
			MaxPitchMultiple: 2.0,
			PitchSDThreshold: 0.040,
			DefFixedLimit:    0.016,
			DefPropLimit:     0.090,
			MinPitchFactor:   0.5,
			LegacyGate:       true,
			AllProp:          false,
			WholeDocFixed:    false,
		},
		Vote: VoteTunables{
			VetoPower:       5,
			SimilarityTol:   0.08,
			DebugBlockStats: false,
		},
	}
}
