package engine

import (
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/identity"
	"github.com/danielpatrickdp/conscious-engine/internal/mode"
	"github.com/danielpatrickdp/conscious-engine/internal/workspace"
)

// #region event-kind
// EventKind enumerates the four observer event kinds.
type EventKind string

const (
	EventStateTransitioned   EventKind = "state_transitioned"
	EventWinnerSelected      EventKind = "winner_selected"
	EventReflectionTriggered EventKind = "reflection_triggered"
	EventConflictDetected    EventKind = "conflict_detected"
)

// #endregion event-kind

// #region event
// ConflictPayload describes a workspace conflict.
type ConflictPayload struct {
	Candidates int     // how many candidates cleared the threshold
	Threshold  float32 // the coherence threshold in effect
}

// Event is one engine occurrence delivered to observers. Exactly one
// payload field matching Kind is non-nil.
type Event struct {
	Kind EventKind
	At   time.Time

	Transition *mode.Transition
	Winner     *workspace.WinnerRecord
	Trigger    *identity.ReflectionTrigger
	Conflict   *ConflictPayload
}

// #endregion event

// #region observer
// Observer receives engine events. Delivery is synchronous and blocking:
// a slow observer stalls the tick, so implementations should hand work off
// to their own channel immediately.
type Observer interface {
	HandleEvent(Event)
}

// #endregion observer
