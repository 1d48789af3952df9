package identity

import (
	"time"

	"github.com/google/uuid"
)

// SelfNodeID is the reserved identifier for the single process-wide self
// record. It is never allocated dynamically and never reused.
var SelfNodeID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// #region fingerprint
// TeleologicalFingerprint is the current purpose state of the self record.
// Replaced wholesale on every cycle; never mutated in place, so prior
// snapshots stay valid for trajectory analysis.
type TeleologicalFingerprint struct {
	ID        uuid.UUID
	Revision  uint64
	Purpose   [13]float32
	UpdatedAt time.Time
}

// PurposeSnapshot is one historical purpose vector, immutable once recorded.
type PurposeSnapshot struct {
	Revision  uint64
	Purpose   [13]float32
	CreatedAt time.Time
}

// #endregion fingerprint

// #region continuity
// ContinuityBand classifies the identity-continuity score.
type ContinuityBand string

const (
	BandHealthy  ContinuityBand = "healthy"  // IC > 0.9
	BandWarning  ContinuityBand = "warning"  // 0.7 < IC <= 0.9
	BandDegraded ContinuityBand = "degraded" // 0.5 < IC <= 0.7
	BandCritical ContinuityBand = "critical" // IC <= 0.5
)

// ContinuityReport carries one cycle's continuity evaluation.
type ContinuityReport struct {
	Score float32 // cos(PV_t, PV_t-1) * integration
	Band  ContinuityBand

	// EnteredCritical is set only on the cycle that crosses into the
	// critical band; the orchestrator must not absorb it silently.
	EnteredCritical bool
}

// #endregion continuity

// #region trigger
// TriggerPriority distinguishes routine misalignment from continuity loss.
type TriggerPriority string

const (
	PriorityIntrospective TriggerPriority = "introspective"
	PriorityCritical      TriggerPriority = "critical"
)

// ReflectionTrigger signals that introspection should run.
type ReflectionTrigger struct {
	Similarity float32 // cosine between purpose vector and action alignment
	Priority   TriggerPriority
	At         time.Time
}

// #endregion trigger

// #region cycle-result
// CycleResult is the output of one self-awareness cycle.
type CycleResult struct {
	Trigger    *ReflectionTrigger // nil when alignment is acceptable
	Continuity *ContinuityReport  // nil until two snapshots exist
	Revision   uint64             // fingerprint revision after this cycle
}

// #endregion cycle-result

// #region config
// Config holds tuning knobs for the identity tracker.
type Config struct {
	HistoryCap      int     // max retained snapshots, oldest evicted first
	SimilarityFloor float32 // below this, a reflection trigger fires
	BlendRate       float32 // per-cycle blend toward the action alignment vector
}

// DefaultConfig returns the standard identity-tracking parameters.
func DefaultConfig() Config {
	return Config{
		HistoryCap:      1000,
		SimilarityFloor: 0.55,
		BlendRate:       0.1,
	}
}

// #endregion config
