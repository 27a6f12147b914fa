package engine

import "SignalGate/internal/domain/models"

// Classification policy defaults. These are policy knobs, not magic
// numbers; config can override them per deployment.
const (
	DefaultConfidenceAutoApprove = 8
	DefaultConfidencePending     = 6
	DefaultRRAutoApprove         = 2.0
)

// Policy maps (confidence, rr_ratio) onto a lifecycle status.
type Policy struct {
	ConfidenceAutoApprove int
	ConfidencePending     int
	RRAutoApprove         float64
}

func DefaultPolicy() Policy {
	return Policy{
		ConfidenceAutoApprove: DefaultConfidenceAutoApprove,
		ConfidencePending:     DefaultConfidencePending,
		RRAutoApprove:         DefaultRRAutoApprove,
	}
}

// Classify is total and deterministic: auto-approve needs both high
// confidence and sufficient risk-reward; mid confidence parks the signal
// for manual review; everything else is rejected outright.
func (p Policy) Classify(confidence int, rrRatio float64) models.Status {
	switch {
	case confidence >= p.ConfidenceAutoApprove && rrRatio >= p.RRAutoApprove:
		return models.StatusApproved
	case confidence >= p.ConfidencePending:
		return models.StatusPending
	default:
		return models.StatusRejected
	}
}
