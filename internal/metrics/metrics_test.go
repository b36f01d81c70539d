package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	r := New(prometheus.NewRegistry())
	r.Transition("APPROVE")
	r.Transition("APPROVE")
	r.Archived("rejected", 3)
	r.Archived("outcome", 0)
	r.NumberConflict()

	if got := testutil.ToFloat64(r.transitions.WithLabelValues("APPROVE")); got != 2 {
		t.Fatalf("expected 2 approvals, got %v", got)
	}
	if got := testutil.ToFloat64(r.archived.WithLabelValues("rejected")); got != 3 {
		t.Fatalf("expected 3 archived, got %v", got)
	}
	if got := testutil.ToFloat64(r.numberConflicts); got != 1 {
		t.Fatalf("expected 1 conflict, got %v", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Transition("SUBMIT")
	r.Archived("expired", 1)
	r.NumberConflict()
}
