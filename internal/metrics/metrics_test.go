package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveEvaluation(t *testing.T) {
	r := New()

	r.ObserveEvaluation("vector_similarity", true, false, 0.8)
	r.ObserveEvaluation("vector_similarity", false, false, 0.2)
	r.ObserveEvaluation("vector_similarity", true, true, 1.0)

	tests := []struct {
		outcome string
		expect  float64
	}{
		{OutcomePassed, 1},
		{OutcomeFailed, 1},
		{OutcomeFailOpen, 1},
	}

	for _, tt := range tests {
		got := testutil.ToFloat64(r.evaluations.WithLabelValues("vector_similarity", tt.outcome))
		if got != tt.expect {
			t.Fatalf("outcome %s: expected %v, got %v", tt.outcome, tt.expect, got)
		}
	}

	if got := testutil.CollectAndCount(r.scores); got != 1 {
		t.Fatalf("expected one score series, got %d", got)
	}
}

func TestObserveResolution(t *testing.T) {
	r := New()

	r.ObserveResolution(nil)
	r.ObserveResolution(errors.New("resume file not found"))
	r.ObserveResolution(nil)

	if got := testutil.ToFloat64(r.resolutions.WithLabelValues(ResolutionResolved)); got != 2 {
		t.Fatalf("expected 2 resolved, got %v", got)
	}
	if got := testutil.ToFloat64(r.resolutions.WithLabelValues(ResolutionFailed)); got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveEvaluation("vector_similarity", true, false, 1)
	r.ObserveResolution(nil)
	if err := r.WriteTextfile("metrics.prom"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ObserveEvaluation("vector_similarity", false, false, 0.3)

	path := filepath.Join(t.TempDir(), "hr_breaker.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}

	content := string(data)
	for _, want := range []string{
		`hr_breaker_filter_evaluations_total{filter="vector_similarity",outcome="failed"} 1`,
		`hr_breaker_filter_score_count{filter="vector_similarity"} 1`,
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in textfile:\n%s", want, content)
		}
	}
}

func TestWriteTextfileEmptyPath(t *testing.T) {
	if err := New().WriteTextfile(" "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
