package page

// Decision classifies a row (or block) as fixed-pitch or proportional.
//
// Dunno is the initial state and must never survive the full pipeline: the
// reconciliation pass replaces it with one of the Corr* states. The Def* and
// Maybe* states come from local evidence; the Corr* states are assigned by
// borrowing from similar rows.
type Decision int

const (
	// Dunno means no decision has been reached yet
	Dunno Decision = iota

	// DefProp means definitely proportional
	DefProp

	// MaybeProp means probably proportional on local evidence
	MaybeProp

	// CorrProp means corrected to proportional by reconciliation
	CorrProp

	// DefFixed means definitely fixed-pitch
	DefFixed

	// MaybeFixed means probably fixed-pitch on local evidence
	MaybeFixed

	// CorrFixed means corrected to fixed-pitch by reconciliation
	CorrFixed
)

// String returns a short human-readable name for the decision
func (d Decision) String() string {
	switch d {
	case Dunno:
		return "dunno"
	case DefProp:
		return "def-prop"
	case MaybeProp:
		return "maybe-prop"
	case CorrProp:
		return "corr-prop"
	case DefFixed:
		return "def-fixed"
	case MaybeFixed:
		return "maybe-fixed"
	case CorrFixed:
		return "corr-fixed"
	default:
		return "invalid"
	}
}

// IsFixed returns true for any of the fixed-pitch states
func (d Decision) IsFixed() bool {
	return d == DefFixed || d == MaybeFixed || d == CorrFixed
}

// IsProp returns true for any of the proportional states
func (d Decision) IsProp() bool {
	return d == DefProp || d == MaybeProp || d == CorrProp
}

// IsFinal returns true if the decision is terminal for the pipeline: any
// state other than Dunno
func (d Decision) IsFinal() bool {
	return d != Dunno
}
