package engine

import (
	"testing"

	"SignalGate/internal/domain/models"
)

func TestClassify(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		confidence int
		rr         float64
		want       models.Status
	}{
		{8, 2.0, models.StatusApproved},
		{10, 3.5, models.StatusApproved},
		{7, 3.0, models.StatusPending},
		{9, 1.0, models.StatusPending}, // high confidence but rr below gate
		{6, 0, models.StatusPending},
		{5, 5.0, models.StatusRejected},
		{0, 10.0, models.StatusRejected},
	}
	for _, c := range cases {
		if got := p.Classify(c.confidence, c.rr); got != c.want {
			t.Fatalf("classify(%d, %v) = %s, want %s", c.confidence, c.rr, got, c.want)
		}
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	p := Policy{ConfidenceAutoApprove: 5, ConfidencePending: 3, RRAutoApprove: 1.0}
	if got := p.Classify(5, 1.0); got != models.StatusApproved {
		t.Fatalf("expected APPROVED with relaxed policy, got %s", got)
	}
	if got := p.Classify(2, 9.0); got != models.StatusRejected {
		t.Fatalf("expected REJECTED below pending threshold, got %s", got)
	}
}
