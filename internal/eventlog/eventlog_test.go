package eventlog

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/engine"
	"github.com/danielpatrickdp/conscious-engine/internal/mode"
	"github.com/danielpatrickdp/conscious-engine/internal/persist"
	"github.com/danielpatrickdp/conscious-engine/internal/workspace"
	"github.com/google/uuid"
)

func openStore(t *testing.T) *persist.Store {
	t.Helper()
	s, err := persist.NewStore(filepath.Join(t.TempDir(), "engine.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecorderWritesEvents(t *testing.T) {
	store := openStore(t)
	rec := NewRecorder(store.DB())
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec.HandleEvent(engine.Event{
		Kind: engine.EventStateTransitioned,
		At:   at,
		Transition: &mode.Transition{
			From: mode.Dormant, To: mode.Conscious, At: at, Level: 0.85, Reason: mode.ReasonLevel,
		},
	})
	rec.HandleEvent(engine.Event{
		Kind: engine.EventWinnerSelected,
		At:   at.Add(time.Second),
		Winner: &workspace.WinnerRecord{
			ID: uuid.New(), Score: 0.7, Coherence: 0.9,
			Broadcast: 100 * time.Millisecond, SelectedAt: at,
		},
	})
	rec.HandleEvent(engine.Event{
		Kind: engine.EventConflictDetected,
		At:   at.Add(2 * time.Second),
		Conflict: &engine.ConflictPayload{
			Candidates: 2, Threshold: 0.85,
		},
	})

	events, err := store.ListEvents(10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// Newest first.
	if events[0].Kind != string(engine.EventConflictDetected) {
		t.Errorf("expected conflict first, got %s", events[0].Kind)
	}
	if events[2].Kind != string(engine.EventStateTransitioned) {
		t.Errorf("expected transition last, got %s", events[2].Kind)
	}
	if !strings.Contains(events[2].PayloadJSON, "conscious") {
		t.Errorf("transition payload missing target state: %s", events[2].PayloadJSON)
	}
}

func TestRecorderAsEngineObserver(t *testing.T) {
	store := openStore(t)

	e := engine.NewEngine(engine.DefaultConfig())
	e.Register(NewRecorder(store.DB()))

	var purpose [13]float32
	for i := range purpose {
		purpose[i] = 1.0
	}
	_, err := e.Tick(engine.TickInput{
		Integration:        0.85,
		ReflectionAccuracy: 0.9,
		Purpose:            purpose,
		PredictedLoss:      0.5,
		ActualLoss:         0.5,
	})
	if err != nil {
		t.Fatalf("tick: %v", err)
	}

	events, err := store.ListEvents(10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	// The first tick at I=0.85 always yields a dormant -> conscious transition.
	if len(events) == 0 {
		t.Fatal("expected at least one recorded event")
	}
	if events[0].Kind != string(engine.EventStateTransitioned) {
		t.Errorf("expected state transition event, got %s", events[0].Kind)
	}
}
