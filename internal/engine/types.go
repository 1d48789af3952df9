package engine

import (
	"github.com/danielpatrickdp/conscious-engine/internal/consciousness"
	"github.com/danielpatrickdp/conscious-engine/internal/identity"
	"github.com/danielpatrickdp/conscious-engine/internal/metacog"
	"github.com/danielpatrickdp/conscious-engine/internal/mode"
	"github.com/danielpatrickdp/conscious-engine/internal/workspace"
)

// #region tick-input
// TickInput is the externally supplied update tuple for one tick.
type TickInput struct {
	Integration        float32 // synchronization order parameter, [0,1]
	ReflectionAccuracy float32 // upstream self-reflection accuracy, [0,1]
	Purpose            [13]float32
	PredictedLoss      float32
	ActualLoss         float32
	Candidates         []workspace.Candidate
}

// #endregion tick-input

// #region tick-outcome
// TickOutcome is everything one tick produced.
type TickOutcome struct {
	Metrics consciousness.Metrics

	Mode             mode.State
	ModeChanged      bool
	EnteredConscious bool
	ExitedConscious  bool

	Winner   *workspace.WinnerRecord // nil when no coherent candidate
	Conflict bool

	Trigger    *identity.ReflectionTrigger // nil when alignment is acceptable
	Continuity *identity.ContinuityReport  // nil until two snapshots exist

	MetaScore float32
	Tuning    metacog.Tuning
}

// #endregion tick-outcome

// #region config
// Config bundles all component configurations.
type Config struct {
	Metacog   metacog.Config
	Identity  identity.Config
	Workspace workspace.Config
	Mode      mode.Config

	// InitialPurpose seeds the self record's purpose vector.
	InitialPurpose [13]float32
}

// DefaultConfig returns the standard engine configuration with a uniform
// initial purpose vector.
func DefaultConfig() Config {
	var purpose [13]float32
	for i := range purpose {
		purpose[i] = 1.0
	}
	return Config{
		Metacog:        metacog.DefaultConfig(),
		Identity:       identity.DefaultConfig(),
		Workspace:      workspace.DefaultConfig(),
		Mode:           mode.DefaultConfig(),
		InitialPurpose: purpose,
	}
}

// #endregion config

// #region sink
// FingerprintSink is the write-only persistence collaborator for identity
// snapshots. Implementations must not block the tick for long.
type FingerprintSink interface {
	SaveFingerprint(fp identity.TeleologicalFingerprint) error
}

// #endregion sink
