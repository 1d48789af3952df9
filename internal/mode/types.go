package mode

import "time"

// #region state
// State enumerates the five operating modes.
type State string

const (
	Dormant    State = "dormant"    // level < 0.3
	Fragmented State = "fragmented" // [0.3, 0.5)
	Emerging   State = "emerging"   // [0.5, 0.8)
	Conscious  State = "conscious"  // [0.8, 0.95]
	Hypersync  State = "hypersync"  // > 0.95, pathological over-synchronization
)

// #endregion state

// #region transition
// Reason strings recorded on transition history entries.
const (
	ReasonLevel             = "level"
	ReasonInactivityTimeout = "inactivity_timeout"
)

// Transition is one immutable history entry.
type Transition struct {
	From   State
	To     State
	At     time.Time
	Level  float32 // the trigger value at transition time
	Reason string
}

// #endregion transition

// #region result
// AdvanceResult reports the outcome of one machine tick.
type AdvanceResult struct {
	State   State
	Changed bool

	// Edge flags for downstream consumers that need entry/exit detection
	// on the conscious mode rather than level polling.
	EnteredConscious bool
	ExitedConscious  bool

	// TimedOut is set when the inactivity timeout fired during this tick,
	// reverting the machine to dormant before the level was applied.
	TimedOut bool
}

// #endregion result

// #region config
// Config holds state-machine parameters.
type Config struct {
	InactivityTimeout time.Duration // revert to dormant after this long without a tick
}

// DefaultConfig returns the standard parameters.
func DefaultConfig() Config {
	return Config{InactivityTimeout: 10 * time.Minute}
}

// #endregion config
