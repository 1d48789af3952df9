package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// #region fixture-tests

// TestFixture_ConsciousSession loads the conscious_session fixture, runs
// Replay(), and compares each tick's outcome against the expected results.
// This is the primary regression test: if estimator, arbitration, or mode
// band parameters change, this catches drift.
func TestFixture_ConsciousSession(t *testing.T) {
	fixturePath := filepath.Join("testdata", "conscious_session.json")
	f, err := LoadFixture(fixturePath)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	results, err := Replay(f)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != len(f.Ticks) {
		t.Fatalf("expected %d results, got %d", len(f.Ticks), len(results))
	}
	for _, r := range results {
		if len(r.Violations) != 0 {
			t.Errorf("tick %s: invariant violations %v", r.TickID, r.Violations)
		}
	}
	if mismatches := Verify(f, results); len(mismatches) != 0 {
		for _, m := range mismatches {
			t.Error(m)
		}
	}
}

// TestFixtureConfig_Overrides verifies fixture overrides land on the engine
// config and zero values fall through to defaults.
func TestFixtureConfig_Overrides(t *testing.T) {
	fc := FixtureConfig{
		InitialPurpose:      []float32{1, 0, 0},
		InactivityTimeoutMs: 2500,
	}
	config := fc.ToEngineConfig()
	if config.InitialPurpose[0] != 1 || config.InitialPurpose[1] != 0 {
		t.Errorf("unexpected purpose prefix: %v", config.InitialPurpose[:3])
	}
	if config.InitialPurpose[12] != 0 {
		t.Error("expected zero fill on short purpose override")
	}
	if config.Mode.InactivityTimeout != 2500*time.Millisecond {
		t.Errorf("unexpected timeout %v", config.Mode.InactivityTimeout)
	}

	var empty FixtureConfig
	defaults := empty.ToEngineConfig()
	if defaults.InitialPurpose[0] != 1.0 {
		t.Error("expected the default uniform purpose when no override is set")
	}
	if defaults.Mode.InactivityTimeout != 10*time.Minute {
		t.Errorf("expected default timeout, got %v", defaults.Mode.InactivityTimeout)
	}
}

// TestToTickInput_BadCandidateID verifies candidate UUIDs are validated.
func TestToTickInput_BadCandidateID(t *testing.T) {
	ft := baseTick("tick-1", 0.5)
	ft.Candidates = []FixtureCandidate{{ID: "not-a-uuid", Coherence: 0.9}}
	if _, err := ft.ToTickInput(); err == nil {
		t.Fatal("expected error for malformed candidate ID")
	}
}

// TestLoadFixture_NotFound verifies error on missing file.
func TestLoadFixture_NotFound(t *testing.T) {
	_, err := LoadFixture("testdata/nonexistent.json")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

// TestLoadFixture_Malformed verifies error on invalid JSON.
func TestLoadFixture_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not valid json}"), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	_, err := LoadFixture(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

// #endregion fixture-tests
