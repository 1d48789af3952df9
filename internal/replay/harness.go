package replay

import (
	"fmt"
	"math"
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/engine"
)

// #region types

// TickResult captures the outcome of replaying one tick, plus any invariant
// violations observed on it.
type TickResult struct {
	TickID     string
	Outcome    engine.TickOutcome
	Violations []string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalTicks  int
	Transitions int
	Winners     int
	Conflicts   int
	Reflections int
	Violations  int
	FinalMode   string
}

// #endregion types

// #region replay

// replayEpoch anchors the synthetic clock so runs are reproducible.
var replayEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Replay drives every fixture tick through a fresh engine on a synthetic
// clock, checking per-tick invariants as it goes. Operates entirely
// in-memory.
func Replay(f *Fixture) ([]TickResult, error) {
	current := replayEpoch
	clock := func() time.Time { return current }
	e := engine.NewEngineWithClock(f.Config.ToEngineConfig(), clock)

	results := make([]TickResult, 0, len(f.Ticks))
	for _, ft := range f.Ticks {
		elapsed := time.Duration(ft.ElapsedMs) * time.Millisecond
		if elapsed <= 0 {
			elapsed = time.Second
		}
		current = current.Add(elapsed)

		in, err := ft.ToTickInput()
		if err != nil {
			return nil, err
		}
		out, err := e.Tick(in)
		if err != nil {
			return nil, fmt.Errorf("tick %s: %w", ft.TickID, err)
		}
		violations := checkInvariants(out)
		if n := e.SnapshotCount(); n > 1000 {
			violations = append(violations, fmt.Sprintf("identity history %d exceeds cap 1000", n))
		}
		if n := len(e.WinnerHistory()); n > 100 {
			violations = append(violations, fmt.Sprintf("winner history %d exceeds cap 100", n))
		}
		results = append(results, TickResult{
			TickID:     ft.TickID,
			Outcome:    out,
			Violations: violations,
		})
	}
	return results, nil
}

// Verify compares replay results against the fixture's expected results.
// Returns one mismatch line per divergence.
func Verify(f *Fixture, results []TickResult) []string {
	byID := make(map[string]TickResult, len(results))
	for _, r := range results {
		byID[r.TickID] = r
	}

	var mismatches []string
	for _, exp := range f.ExpectedResults {
		r, ok := byID[exp.TickID]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("tick %s: no result", exp.TickID))
			continue
		}
		if string(r.Outcome.Mode) != exp.Mode {
			mismatches = append(mismatches, fmt.Sprintf(
				"tick %s: mode %s, expected %s", exp.TickID, r.Outcome.Mode, exp.Mode))
		}
		winnerID := ""
		if r.Outcome.Winner != nil {
			winnerID = r.Outcome.Winner.ID.String()
		}
		if winnerID != exp.WinnerID {
			mismatches = append(mismatches, fmt.Sprintf(
				"tick %s: winner %q, expected %q", exp.TickID, winnerID, exp.WinnerID))
		}
		if r.Outcome.Conflict != exp.Conflict {
			mismatches = append(mismatches, fmt.Sprintf(
				"tick %s: conflict %v, expected %v", exp.TickID, r.Outcome.Conflict, exp.Conflict))
		}
		if (r.Outcome.Trigger != nil) != exp.Reflection {
			mismatches = append(mismatches, fmt.Sprintf(
				"tick %s: reflection %v, expected %v", exp.TickID, r.Outcome.Trigger != nil, exp.Reflection))
		}
	}
	return mismatches
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []TickResult) Summary {
	s := Summary{TotalTicks: len(results)}
	for _, r := range results {
		if r.Outcome.ModeChanged {
			s.Transitions++
		}
		if r.Outcome.Winner != nil {
			s.Winners++
		}
		if r.Outcome.Conflict {
			s.Conflicts++
		}
		if r.Outcome.Trigger != nil {
			s.Reflections++
		}
		s.Violations += len(r.Violations)
		s.FinalMode = string(r.Outcome.Mode)
	}
	return s
}

// #endregion replay

// #region invariants

// checkInvariants validates what must hold on every tick regardless of input.
func checkInvariants(out engine.TickOutcome) []string {
	var violations []string
	m := out.Metrics

	for name, v := range map[string]float32{
		"integration":     m.Integration,
		"reflection":      m.Reflection,
		"differentiation": m.Differentiation,
		"consciousness":   m.Consciousness,
		"meta_score":      out.MetaScore,
	} {
		if v < 0 || v > 1 || math.IsNaN(float64(v)) {
			violations = append(violations, fmt.Sprintf("%s=%.6f outside [0,1]", name, v))
		}
	}

	product := m.Integration * m.Reflection * m.Differentiation
	if math.Abs(float64(m.Consciousness-product)) > 1e-4 {
		violations = append(violations, fmt.Sprintf(
			"consciousness %.6f != I*R*D %.6f", m.Consciousness, product))
	}

	if out.Winner != nil {
		if out.Winner.Score < 0 || out.Winner.Score > 1 {
			violations = append(violations, fmt.Sprintf(
				"winner score %.6f outside [0,1]", out.Winner.Score))
		}
	}
	return violations
}

// #endregion invariants
