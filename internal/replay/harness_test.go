package replay

import (
	"testing"

	"github.com/google/uuid"
)

// helper: uniform purpose vector.
func uniform13() [13]float32 {
	var v [13]float32
	for i := range v {
		v[i] = 1.0
	}
	return v
}

// helper: minimal tick at a given integration, no candidates.
func baseTick(id string, integration float32) FixtureTick {
	return FixtureTick{
		TickID:             id,
		Integration:        integration,
		ReflectionAccuracy: 0.9,
		Purpose:            uniform13(),
		PredictedLoss:      0.5,
		ActualLoss:         0.5,
	}
}

func TestReplay_ModeFollowsIntegration(t *testing.T) {
	f := &Fixture{
		Ticks: []FixtureTick{
			baseTick("tick-1", 0.85),
			baseTick("tick-2", 0.2),
			baseTick("tick-3", 0.6),
		},
	}
	results, err := Replay(f)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"conscious", "dormant", "emerging"} {
		if string(results[i].Outcome.Mode) != want {
			t.Errorf("tick %d: mode %s, expected %s", i, results[i].Outcome.Mode, want)
		}
	}
}

func TestReplay_InvariantsHoldOnEveryTick(t *testing.T) {
	winner := uuid.New()
	contested := baseTick("tick-2", 0.85)
	contested.Candidates = []FixtureCandidate{
		{ID: winner.String(), Coherence: 0.95, Importance: 0.9, Alignment: 0.9},
		{ID: uuid.New().String(), Coherence: 0.9, Importance: 0.5, Alignment: 0.5},
	}
	f := &Fixture{
		Ticks: []FixtureTick{baseTick("tick-1", 0.85), contested, baseTick("tick-3", 0.1)},
	}
	results, err := Replay(f)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	for _, r := range results {
		if len(r.Violations) != 0 {
			t.Errorf("tick %s: violations %v", r.TickID, r.Violations)
		}
	}
	if results[1].Outcome.Winner == nil || results[1].Outcome.Winner.ID != winner {
		t.Error("expected the high-score candidate to win tick-2")
	}
	if !results[1].Outcome.Conflict {
		t.Error("expected a conflict on tick-2")
	}
}

func TestReplay_InactivityTimeoutViaElapsed(t *testing.T) {
	late := baseTick("tick-2", 0.85)
	late.ElapsedMs = 6000
	f := &Fixture{
		Config: FixtureConfig{InactivityTimeoutMs: 5000},
		Ticks:  []FixtureTick{baseTick("tick-1", 0.85), late},
	}
	results, err := Replay(f)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	// The gap expires the conscious state, then the level requalifies it: the
	// final mode matches tick-1 but the tick still changed state twice.
	if string(results[1].Outcome.Mode) != "conscious" {
		t.Errorf("expected conscious after requalify, got %s", results[1].Outcome.Mode)
	}
	if !results[1].Outcome.ModeChanged {
		t.Error("expected the timeout round trip to register as a change")
	}
}

func TestReplay_RejectsInvalidTick(t *testing.T) {
	bad := baseTick("tick-1", 1.5)
	f := &Fixture{Ticks: []FixtureTick{bad}}
	if _, err := Replay(f); err == nil {
		t.Fatal("expected error for out-of-range integration")
	}
}

func TestVerify_ReportsMismatches(t *testing.T) {
	f := &Fixture{
		Ticks: []FixtureTick{baseTick("tick-1", 0.85)},
		ExpectedResults: []FixtureExpectedResult{
			{TickID: "tick-1", Mode: "dormant", Conflict: true, Reflection: false},
			{TickID: "tick-9", Mode: "conscious"},
		},
	}
	results, err := Replay(f)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	mismatches := Verify(f, results)
	// Wrong mode, wrong conflict, and a missing tick.
	if len(mismatches) != 3 {
		t.Errorf("expected 3 mismatches, got %d: %v", len(mismatches), mismatches)
	}
}

func TestSummarize_Counts(t *testing.T) {
	contested := baseTick("tick-2", 0.85)
	contested.Candidates = []FixtureCandidate{
		{ID: uuid.New().String(), Coherence: 0.95, Importance: 0.9, Alignment: 0.9},
		{ID: uuid.New().String(), Coherence: 0.9, Importance: 0.6, Alignment: 0.6},
	}
	drift := baseTick("tick-3", 0.6)
	drift.Purpose = [13]float32{}
	f := &Fixture{
		Ticks: []FixtureTick{baseTick("tick-1", 0.85), contested, drift},
	}
	results, err := Replay(f)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	s := Summarize(results)
	if s.TotalTicks != 3 {
		t.Errorf("expected 3 ticks, got %d", s.TotalTicks)
	}
	if s.Winners != 1 {
		t.Errorf("expected 1 winner, got %d", s.Winners)
	}
	if s.Conflicts != 1 {
		t.Errorf("expected 1 conflict, got %d", s.Conflicts)
	}
	if s.Reflections != 1 {
		t.Errorf("expected 1 reflection, got %d", s.Reflections)
	}
	if s.Violations != 0 {
		t.Errorf("expected no violations, got %d", s.Violations)
	}
	if s.FinalMode != "emerging" {
		t.Errorf("expected final mode emerging, got %s", s.FinalMode)
	}
}

func TestReplay_Deterministic(t *testing.T) {
	f := &Fixture{
		Ticks: []FixtureTick{baseTick("tick-1", 0.85), baseTick("tick-2", 0.4)},
	}
	r1, err := Replay(f)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Replay(f)
	if err != nil {
		t.Fatal(err)
	}
	for i := range r1 {
		if r1[i].Outcome.Metrics != r2[i].Outcome.Metrics {
			t.Errorf("tick %d: metrics differ across runs", i)
		}
		if r1[i].Outcome.Mode != r2[i].Outcome.Mode {
			t.Errorf("tick %d: mode differs across runs", i)
		}
	}
}
