package domain

// Tier is a coarse classification of a similarity ratio.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// Tier thresholds. Lower bounds are inclusive.
const (
	HighThreshold   = 0.95
	MediumThreshold = 0.85
)

// ClassifyTier maps a similarity ratio onto its tier.
func ClassifyTier(similarity float64) Tier {
	switch {
	case similarity >= HighThreshold:
		return TierHigh
	case similarity >= MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// DiffOp is the kind of a line-level difference.
type DiffOp string

const (
	OpEqual DiffOp = "EQUAL"
	// OpRemove marks a line present only on the Markdown side.
	OpRemove DiffOp = "REMOVE"
	// OpAdd marks a line present only on the LaTeX side.
	OpAdd DiffOp = "ADD"
)

// DiffLine is one record of a line-level diff.
type DiffLine struct {
	Op   DiffOp `json:"op" yaml:"op"`
	Text string `json:"text" yaml:"text"`
}
