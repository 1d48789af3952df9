package mode

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/consciousness"
)

// #region machine

// Machine maps the consciousness level onto one of five operating modes.
// It owns no timer: it is advanced only by explicit ticks carrying the
// caller's clock, so it stays deterministic under synthetic time.
type Machine struct {
	config          Config
	current         State
	lastTick        time.Time
	history         []Transition
	conflictPending bool
}

// NewMachine creates a machine in the dormant state.
func NewMachine(config Config) *Machine {
	return &Machine{
		config:  config,
		current: Dormant,
	}
}

// #endregion machine

// #region advance

// Advance applies one tick. If the gap since the previous tick exceeds the
// inactivity timeout, the machine first reverts to dormant (recorded as its
// own transition), then the level mapping applies as a fresh qualifying
// update. Both transitions land in the history.
func (m *Machine) Advance(level float32, now time.Time) (AdvanceResult, error) {
	f := float64(level)
	if math.IsNaN(f) || math.IsInf(f, 0) || level < 0 || level > 1 {
		return AdvanceResult{}, fmt.Errorf("level %v outside [0,1]: %w", level, consciousness.ErrOutOfRange)
	}

	result := AdvanceResult{}

	if !m.lastTick.IsZero() && m.current != Dormant && now.Sub(m.lastTick) > m.config.InactivityTimeout {
		m.transition(Dormant, now, level, ReasonInactivityTimeout)
		result.TimedOut = true
		if m.historyTail().From == Conscious {
			result.ExitedConscious = true
		}
	}
	m.lastTick = now

	next := stateForLevel(level)
	if next != m.current {
		prev := m.current
		m.transition(next, now, level, ReasonLevel)
		result.Changed = true
		if next == Conscious && prev != Conscious && prev != Hypersync {
			result.EnteredConscious = true
		}
		// Exit flag covers dropping back down, not escalating to hypersync.
		if prev == Conscious && next != Conscious && next != Hypersync {
			result.ExitedConscious = true
		}
	}
	result.Changed = result.Changed || result.TimedOut

	result.State = m.current
	return result, nil
}

// NoteConflict marks a workspace conflict as a destabilizing influence; the
// next transition's reason carries the flag.
func (m *Machine) NoteConflict() {
	m.conflictPending = true
}

// #endregion advance

// #region transition-fn

// stateForLevel maps a consciousness level onto its band.
func stateForLevel(level float32) State {
	switch {
	case level > 0.95:
		return Hypersync
	case level >= 0.8:
		return Conscious
	case level >= 0.5:
		return Emerging
	case level >= 0.3:
		return Fragmented
	default:
		return Dormant
	}
}

func (m *Machine) transition(to State, now time.Time, level float32, reason string) {
	if m.conflictPending {
		reason += "+workspace_conflict"
		m.conflictPending = false
	}
	entry := Transition{
		From:   m.current,
		To:     to,
		At:     now,
		Level:  level,
		Reason: reason,
	}
	m.history = append(m.history, entry)
	m.current = to
	if to == Hypersync {
		log.Printf("[MODE] hypersync: level=%.4f (pathological over-synchronization)", level)
	}
}

func (m *Machine) historyTail() Transition {
	return m.history[len(m.history)-1]
}

// #endregion transition-fn

// #region accessors

// Current returns the current operating mode.
func (m *Machine) Current() State {
	return m.current
}

// History returns a copy of the transition log, oldest first.
func (m *Machine) History() []Transition {
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

// #endregion accessors
