package identity

import (
	"fmt"
	"math"
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/consciousness"
)

// #region tracker

// Tracker owns the single self record: its current fingerprint and the
// bounded history of purpose snapshots. One instance per engine; tests may
// construct as many independent instances as they like.
type Tracker struct {
	config      Config
	fingerprint TeleologicalFingerprint
	history     []PurposeSnapshot
	lastBand    ContinuityBand
}

// NewTracker creates the self record with the given initial purpose vector
// at revision 0.
func NewTracker(config Config, initial [13]float32, now time.Time) *Tracker {
	return &Tracker{
		config: config,
		fingerprint: TeleologicalFingerprint{
			ID:        SelfNodeID,
			Revision:  0,
			Purpose:   initial,
			UpdatedAt: now,
		},
	}
}

// #endregion tracker

// #region cycle

// Cycle runs one self-awareness pass against an action's intended alignment
// vector. It snapshots the current purpose vector, blends the vector toward
// the alignment input, replaces the fingerprint at revision+1, and evaluates
// identity continuity over the two most recent snapshots.
//
// A reflection trigger fires when cosine similarity to the alignment vector
// drops below the configured floor, or at critical priority when continuity
// crosses into the critical band.
func (t *Tracker) Cycle(alignment [13]float32, integration float32, now time.Time) (CycleResult, error) {
	for i, v := range alignment {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return CycleResult{}, fmt.Errorf("alignment[%d] is not finite: %w", i, consciousness.ErrOutOfRange)
		}
	}
	f := float64(integration)
	if math.IsNaN(f) || math.IsInf(f, 0) || integration < 0 || integration > 1 {
		return CycleResult{}, fmt.Errorf("integration %v outside [0,1]: %w", integration, consciousness.ErrOutOfRange)
	}

	current := t.fingerprint.Purpose
	similarity := cosineSimilarity(current, alignment)

	// Snapshot the pre-blend vector; FIFO eviction at the cap.
	t.history = append(t.history, PurposeSnapshot{
		Revision:  t.fingerprint.Revision,
		Purpose:   current,
		CreatedAt: now,
	})
	if len(t.history) > t.config.HistoryCap {
		t.history = t.history[len(t.history)-t.config.HistoryCap:]
	}

	// Blend toward the alignment input and replace the fingerprint.
	blended := current
	for i := range blended {
		blended[i] = (1-t.config.BlendRate)*current[i] + t.config.BlendRate*alignment[i]
	}
	t.fingerprint = TeleologicalFingerprint{
		ID:        SelfNodeID,
		Revision:  t.fingerprint.Revision + 1,
		Purpose:   blended,
		UpdatedAt: now,
	}

	result := CycleResult{Revision: t.fingerprint.Revision}

	if similarity < t.config.SimilarityFloor {
		result.Trigger = &ReflectionTrigger{
			Similarity: similarity,
			Priority:   PriorityIntrospective,
			At:         now,
		}
	}

	if len(t.history) >= 2 {
		prev := t.history[len(t.history)-2].Purpose
		latest := t.history[len(t.history)-1].Purpose
		ic := cosineSimilarity(latest, prev) * integration
		band := classifyContinuity(ic)
		report := &ContinuityReport{
			Score:           ic,
			Band:            band,
			EnteredCritical: band == BandCritical && t.lastBand != BandCritical,
		}
		t.lastBand = band
		result.Continuity = report

		// Continuity loss escalates: fire (or upgrade) the trigger at
		// critical priority so the orchestrator cannot absorb it.
		if report.EnteredCritical {
			if result.Trigger == nil {
				result.Trigger = &ReflectionTrigger{
					Similarity: similarity,
					Priority:   PriorityCritical,
					At:         now,
				}
			} else {
				result.Trigger.Priority = PriorityCritical
			}
		}
	}

	return result, nil
}

// #endregion cycle

// #region accessors

// Fingerprint returns the current teleological fingerprint.
func (t *Tracker) Fingerprint() TeleologicalFingerprint {
	return t.fingerprint
}

// HistoryLen returns the number of retained snapshots.
func (t *Tracker) HistoryLen() int {
	return len(t.history)
}

// History returns a copy of the snapshot history, oldest first.
func (t *Tracker) History() []PurposeSnapshot {
	out := make([]PurposeSnapshot, len(t.history))
	copy(out, t.history)
	return out
}

// #endregion accessors

// #region helpers

// classifyContinuity maps an IC score onto its band.
func classifyContinuity(ic float32) ContinuityBand {
	switch {
	case ic > 0.9:
		return BandHealthy
	case ic > 0.7:
		return BandWarning
	case ic > 0.5:
		return BandDegraded
	default:
		return BandCritical
	}
}

// cosineSimilarity computes cosine similarity between two purpose vectors.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b [13]float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return float32(dot / denom)
}

// #endregion helpers
