package workspace

import (
	"time"

	"github.com/google/uuid"
)

// #region candidate
// Candidate is one memory competing for the workspace this cycle.
// Consumed entirely within a single Select call; never retained.
type Candidate struct {
	ID         uuid.UUID
	Coherence  float32 // [0,1]
	Importance float32 // [0,1]
	Alignment  float32 // [0,1]
}

// #endregion candidate

// #region winner
// WinnerRecord is the immutable outcome of a successful selection.
type WinnerRecord struct {
	ID         uuid.UUID // winning candidate's ID
	Score      float32   // coherence * importance * alignment
	Coherence  float32
	Broadcast  time.Duration
	SelectedAt time.Time
}

// #endregion winner

// #region config
// Config holds arbitration parameters.
type Config struct {
	CoherenceThreshold float32       // default filter when the caller passes no override
	BroadcastDuration  time.Duration // fixed broadcast window per winner
	HistoryCap         int           // max retained winner records, oldest evicted first
}

// DefaultConfig returns the standard arbitration parameters.
func DefaultConfig() Config {
	return Config{
		CoherenceThreshold: 0.8,
		BroadcastDuration:  100 * time.Millisecond,
		HistoryCap:         100,
	}
}

// #endregion config
