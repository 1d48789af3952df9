package workspace

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/consciousness"
)

// #region arbitrator

// Arbitrator runs winner-take-all selection over workspace candidates and
// keeps the bounded winner history. Not safe for concurrent use; the
// orchestrator serializes calls.
type Arbitrator struct {
	config  Config
	history []WinnerRecord
}

// NewArbitrator creates an arbitrator with an empty history.
func NewArbitrator(config Config) *Arbitrator {
	return &Arbitrator{config: config}
}

// #endregion arbitrator

// #region select

// Select filters candidates below the coherence threshold, scores the
// survivors as coherence * importance * alignment, and picks the single
// maximum. Ties break by input order (first seen wins), so identical inputs
// always yield the identical winner.
//
// The conflict flag is set whenever two or more candidates clear the
// threshold, independent of which one wins. An empty candidate set, or one
// where nothing clears the threshold, returns (nil, false, nil): absence of
// a coherent candidate is steady state, not a failure.
func (a *Arbitrator) Select(candidates []Candidate, threshold float32, now time.Time) (*WinnerRecord, bool, error) {
	for i, c := range candidates {
		if err := validateUnit(fmt.Sprintf("candidates[%d].coherence", i), c.Coherence); err != nil {
			return nil, false, err
		}
		if err := validateUnit(fmt.Sprintf("candidates[%d].importance", i), c.Importance); err != nil {
			return nil, false, err
		}
		if err := validateUnit(fmt.Sprintf("candidates[%d].alignment", i), c.Alignment); err != nil {
			return nil, false, err
		}
	}

	survivors := 0
	winnerIdx := -1
	var winnerScore float32
	for i, c := range candidates {
		if c.Coherence < threshold {
			continue
		}
		survivors++
		score := c.Coherence * c.Importance * c.Alignment
		// Strict greater-than keeps the first-seen candidate on ties.
		if winnerIdx == -1 || score > winnerScore {
			winnerIdx = i
			winnerScore = score
		}
	}

	conflict := survivors >= 2
	if conflict {
		log.Printf("[ARB] conflict: %d candidates above threshold %.2f", survivors, threshold)
	}

	if winnerIdx == -1 {
		return nil, conflict, nil
	}

	winner := WinnerRecord{
		ID:         candidates[winnerIdx].ID,
		Score:      winnerScore,
		Coherence:  candidates[winnerIdx].Coherence,
		Broadcast:  a.config.BroadcastDuration,
		SelectedAt: now,
	}

	a.history = append(a.history, winner)
	if len(a.history) > a.config.HistoryCap {
		a.history = a.history[len(a.history)-a.config.HistoryCap:]
	}

	return &winner, conflict, nil
}

// #endregion select

// #region accessors

// HistoryLen returns the number of retained winner records.
func (a *Arbitrator) HistoryLen() int {
	return len(a.history)
}

// History returns a copy of the winner history, oldest first.
func (a *Arbitrator) History() []WinnerRecord {
	out := make([]WinnerRecord, len(a.history))
	copy(out, a.history)
	return out
}

// #endregion accessors

// #region helpers

func validateUnit(field string, v float32) error {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || v < 0 || v > 1 {
		return fmt.Errorf("%s %v outside [0,1]: %w", field, v, consciousness.ErrOutOfRange)
	}
	return nil
}

// #endregion helpers
