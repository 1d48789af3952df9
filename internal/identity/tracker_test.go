package identity

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/consciousness"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func uniform() [13]float32 {
	var v [13]float32
	for i := range v {
		v[i] = 1.0
	}
	return v
}

func TestSelfNodeIDFixed(t *testing.T) {
	tr := NewTracker(DefaultConfig(), uniform(), t0)
	if tr.Fingerprint().ID != SelfNodeID {
		t.Errorf("fingerprint ID %s != sentinel %s", tr.Fingerprint().ID, SelfNodeID)
	}
	if _, err := tr.Cycle(uniform(), 0.8, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Fingerprint().ID != SelfNodeID {
		t.Error("cycle changed the self node ID")
	}
}

func TestRevisionAdvancesEveryCycle(t *testing.T) {
	tr := NewTracker(DefaultConfig(), uniform(), t0)
	for i := uint64(1); i <= 5; i++ {
		res, err := tr.Cycle(uniform(), 0.8, t0.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
		if res.Revision != i {
			t.Errorf("cycle %d: expected revision %d, got %d", i, i, res.Revision)
		}
	}
}

func TestAlignedActionNoTrigger(t *testing.T) {
	tr := NewTracker(DefaultConfig(), uniform(), t0)
	res, err := tr.Cycle(uniform(), 0.8, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// cos(v, v) = 1 >= 0.55.
	if res.Trigger != nil {
		t.Errorf("expected no trigger for aligned action, got %+v", res.Trigger)
	}
}

func TestMisalignedActionTriggers(t *testing.T) {
	var pv, align [13]float32
	pv[0] = 1.0
	align[1] = 1.0 // orthogonal: cos = 0 < 0.55

	tr := NewTracker(DefaultConfig(), pv, t0)
	res, err := tr.Cycle(align, 0.8, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Trigger == nil {
		t.Fatal("expected reflection trigger for orthogonal alignment")
	}
	if res.Trigger.Priority != PriorityIntrospective {
		t.Errorf("expected introspective priority, got %s", res.Trigger.Priority)
	}
	if res.Trigger.Similarity != 0 {
		t.Errorf("expected similarity 0, got %.4f", res.Trigger.Similarity)
	}
}

func TestZeroMagnitudeSimilarityIsZero(t *testing.T) {
	tr := NewTracker(DefaultConfig(), [13]float32{}, t0)
	res, err := tr.Cycle(uniform(), 0.8, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Zero-magnitude purpose vector: similarity defined as 0, which triggers.
	if res.Trigger == nil {
		t.Fatal("expected trigger for zero-magnitude purpose vector")
	}
	if res.Trigger.Similarity != 0 {
		t.Errorf("expected similarity 0, got %.4f", res.Trigger.Similarity)
	}
}

func TestContinuityIdenticalVectorsFullIntegration(t *testing.T) {
	tr := NewTracker(DefaultConfig(), uniform(), t0)

	res, err := tr.Cycle(uniform(), 1.0, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Continuity != nil {
		t.Error("continuity should be nil with a single snapshot")
	}

	res, err = tr.Cycle(uniform(), 1.0, t0.Add(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Continuity == nil {
		t.Fatal("expected continuity report with two snapshots")
	}
	// Identical consecutive vectors at I=1.0: IC = 1.0, healthy.
	if math.Abs(float64(res.Continuity.Score)-1.0) > 1e-5 {
		t.Errorf("expected IC ~ 1.0, got %.6f", res.Continuity.Score)
	}
	if res.Continuity.Band != BandHealthy {
		t.Errorf("expected healthy band, got %s", res.Continuity.Band)
	}
}

func TestContinuityBands(t *testing.T) {
	cases := []struct {
		ic   float32
		band ContinuityBand
	}{
		{0.95, BandHealthy},
		{0.9, BandWarning}, // boundary: 0.9 is not > 0.9
		{0.8, BandWarning},
		{0.7, BandDegraded},
		{0.6, BandDegraded},
		{0.5, BandCritical},
		{0.1, BandCritical},
		{-0.3, BandCritical},
	}
	for _, c := range cases {
		if got := classifyContinuity(c.ic); got != c.band {
			t.Errorf("IC=%.2f: expected %s, got %s", c.ic, c.band, got)
		}
	}
}

func TestCriticalCrossingReported(t *testing.T) {
	tr := NewTracker(DefaultConfig(), uniform(), t0)
	if _, err := tr.Cycle(uniform(), 1.0, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Identical vectors but integration collapsed: IC = 1.0 * 0.2 = 0.2.
	res, err := tr.Cycle(uniform(), 0.2, t0.Add(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Continuity == nil || res.Continuity.Band != BandCritical {
		t.Fatalf("expected critical band, got %+v", res.Continuity)
	}
	if !res.Continuity.EnteredCritical {
		t.Error("expected EnteredCritical on the crossing cycle")
	}
	if res.Trigger == nil || res.Trigger.Priority != PriorityCritical {
		t.Errorf("expected critical-priority trigger, got %+v", res.Trigger)
	}

	// Staying critical must not re-report the crossing.
	res, err = tr.Cycle(uniform(), 0.2, t0.Add(2*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Continuity.EnteredCritical {
		t.Error("EnteredCritical should fire only on the crossing cycle")
	}
}

func TestHistoryBoundFIFO(t *testing.T) {
	tr := NewTracker(DefaultConfig(), uniform(), t0)
	for i := 0; i < 1500; i++ {
		if _, err := tr.Cycle(uniform(), 0.8, t0.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}
	if got := tr.HistoryLen(); got != 1000 {
		t.Fatalf("expected exactly 1000 snapshots, got %d", got)
	}
	// Oldest evicted first: first retained snapshot is revision 500.
	hist := tr.History()
	if hist[0].Revision != 500 {
		t.Errorf("expected oldest retained revision 500, got %d", hist[0].Revision)
	}
	if hist[len(hist)-1].Revision != 1499 {
		t.Errorf("expected newest revision 1499, got %d", hist[len(hist)-1].Revision)
	}
}

func TestBlendMovesPurposeTowardAlignment(t *testing.T) {
	var pv, align [13]float32
	pv[0] = 1.0
	align[0] = 1.0
	align[1] = 1.0

	tr := NewTracker(DefaultConfig(), pv, t0)
	if _, err := tr.Cycle(align, 0.8, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := tr.Fingerprint().Purpose
	// Component 1: 0.9*0 + 0.1*1 = 0.1.
	if math.Abs(float64(got[1])-0.1) > 1e-6 {
		t.Errorf("expected blended component 0.1, got %.4f", got[1])
	}
	// Snapshot keeps the pre-blend vector.
	if tr.History()[0].Purpose != pv {
		t.Error("snapshot should record the pre-blend purpose vector")
	}
}

func TestCycleRejectsBadInputsWithoutMutation(t *testing.T) {
	tr := NewTracker(DefaultConfig(), uniform(), t0)

	bad := uniform()
	bad[4] = float32(math.Inf(-1))
	if _, err := tr.Cycle(bad, 0.8, t0); !errors.Is(err, consciousness.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for non-finite alignment, got %v", err)
	}
	if _, err := tr.Cycle(uniform(), 1.2, t0); !errors.Is(err, consciousness.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for integration > 1, got %v", err)
	}

	if tr.HistoryLen() != 0 {
		t.Error("rejected cycles must not append snapshots")
	}
	if tr.Fingerprint().Revision != 0 {
		t.Error("rejected cycles must not advance the revision")
	}
}
