package engine

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/consciousness"
	"github.com/danielpatrickdp/conscious-engine/internal/identity"
	"github.com/danielpatrickdp/conscious-engine/internal/metacog"
	"github.com/danielpatrickdp/conscious-engine/internal/mode"
	"github.com/danielpatrickdp/conscious-engine/internal/workspace"
)

// #region engine-struct

// Engine is the single entry point driving all components in tick order.
// One tick runs everything to completion; concurrent ticks on the same
// instance are not supported and must be serialized by the caller.
type Engine struct {
	controller *metacog.Controller
	tracker    *identity.Tracker
	arbitrator *workspace.Arbitrator
	machine    *mode.Machine

	observers []Observer
	sink      FingerprintSink
	clock     func() time.Time

	// nextReflection carries the controller's meta score into the next
	// tick's estimator input. The loop has exactly one tick of lag; the
	// first tick seeds from the externally supplied accuracy.
	nextReflection float32
	seeded         bool
	ticks          uint64
}

// #endregion engine-struct

// #region constructor

// NewEngine creates a fully wired engine using the wall clock.
func NewEngine(config Config) *Engine {
	return NewEngineWithClock(config, time.Now)
}

// NewEngineWithClock creates an engine with an injected clock for
// deterministic replay and tests.
func NewEngineWithClock(config Config, clock func() time.Time) *Engine {
	return &Engine{
		controller: metacog.NewController(config.Metacog),
		tracker:    identity.NewTracker(config.Identity, config.InitialPurpose, clock()),
		arbitrator: workspace.NewArbitrator(config.Workspace),
		machine:    mode.NewMachine(config.Mode),
		clock:      clock,
	}
}

// Register adds an observer. Not safe to call concurrently with Tick.
func (e *Engine) Register(o Observer) {
	e.observers = append(e.observers, o)
}

// SetFingerprintSink wires the write-only persistence collaborator.
func (e *Engine) SetFingerprintSink(sink FingerprintSink) {
	e.sink = sink
}

// #endregion constructor

// #region tick

// Tick runs one full update cycle: estimator, meta-cognitive controller,
// identity tracker, workspace arbitration (thresholded by the current
// integration), then the mode state machine. All inputs are validated
// before any component mutates, so a rejected tick leaves no partial state.
func (e *Engine) Tick(in TickInput) (TickOutcome, error) {
	if err := validateInput(in); err != nil {
		return TickOutcome{}, err
	}
	now := e.clock()
	e.ticks++

	// 1. Estimator. The reflection input is the controller's score from the
	// previous tick; tick one consumes the supplied accuracy.
	reflection := in.ReflectionAccuracy
	if e.seeded {
		reflection = e.nextReflection
	}
	metrics, err := consciousness.Estimate(in.Integration, reflection, in.Purpose)
	if err != nil {
		return TickOutcome{}, fmt.Errorf("estimate: %w", err)
	}

	// 2. Meta-cognitive controller; its score feeds the NEXT tick.
	metaScore, tuning, err := e.controller.Update(in.PredictedLoss, in.ActualLoss)
	if err != nil {
		return TickOutcome{}, fmt.Errorf("metacog update: %w", err)
	}
	e.nextReflection = metaScore
	e.seeded = true

	// 3. Identity tracker.
	cycle, err := e.tracker.Cycle(in.Purpose, in.Integration, now)
	if err != nil {
		return TickOutcome{}, fmt.Errorf("identity cycle: %w", err)
	}
	if cycle.Trigger != nil {
		e.emit(Event{Kind: EventReflectionTriggered, At: now, Trigger: cycle.Trigger})
	}
	if e.sink != nil {
		if err := e.sink.SaveFingerprint(e.tracker.Fingerprint()); err != nil {
			// Persistence is write-only and best-effort; the tick proceeds.
			log.Printf("[ENGINE] fingerprint save failed: %v", err)
		}
	}

	// 4. Arbitration, gated by the current integration as the threshold.
	winner, conflict, err := e.arbitrator.Select(in.Candidates, metrics.Integration, now)
	if err != nil {
		return TickOutcome{}, fmt.Errorf("arbitrate: %w", err)
	}
	if conflict {
		survivors := countSurvivors(in.Candidates, metrics.Integration)
		e.machine.NoteConflict()
		e.emit(Event{Kind: EventConflictDetected, At: now, Conflict: &ConflictPayload{
			Candidates: survivors,
			Threshold:  metrics.Integration,
		}})
	}
	if winner != nil {
		e.emit(Event{Kind: EventWinnerSelected, At: now, Winner: winner})
	}

	// 5. Mode state machine.
	before := len(e.machine.History())
	adv, err := e.machine.Advance(metrics.Integration, now)
	if err != nil {
		return TickOutcome{}, fmt.Errorf("mode advance: %w", err)
	}
	for _, tr := range e.machine.History()[before:] {
		t := tr
		e.emit(Event{Kind: EventStateTransitioned, At: now, Transition: &t})
	}

	log.Printf("[ENGINE] tick %d: C=%.4f (I=%.2f R=%.2f D=%.2f bottleneck=%s) mode=%s winner=%v conflict=%v",
		e.ticks, metrics.Consciousness, metrics.Integration, metrics.Reflection,
		metrics.Differentiation, metrics.Bottleneck, adv.State, winner != nil, conflict)

	return TickOutcome{
		Metrics:          metrics,
		Mode:             adv.State,
		ModeChanged:      adv.Changed,
		EnteredConscious: adv.EnteredConscious,
		ExitedConscious:  adv.ExitedConscious,
		Winner:           winner,
		Conflict:         conflict,
		Trigger:          cycle.Trigger,
		Continuity:       cycle.Continuity,
		MetaScore:        metaScore,
		Tuning:           tuning,
	}, nil
}

// #endregion tick

// #region accessors

// Fingerprint exposes the current identity fingerprint.
func (e *Engine) Fingerprint() identity.TeleologicalFingerprint {
	return e.tracker.Fingerprint()
}

// SnapshotCount returns the identity history length.
func (e *Engine) SnapshotCount() int {
	return e.tracker.HistoryLen()
}

// WinnerHistory returns the arbitration history, oldest first.
func (e *Engine) WinnerHistory() []workspace.WinnerRecord {
	return e.arbitrator.History()
}

// ModeHistory returns the transition log, oldest first.
func (e *Engine) ModeHistory() []mode.Transition {
	return e.machine.History()
}

// Mode returns the current operating mode.
func (e *Engine) Mode() mode.State {
	return e.machine.Current()
}

// #endregion accessors

// #region helpers

func (e *Engine) emit(ev Event) {
	for _, o := range e.observers {
		o.HandleEvent(ev)
	}
}

// validateInput checks the whole tuple up front so no component mutates on
// a tick that another component would reject.
func validateInput(in TickInput) error {
	if err := validateUnit("integration", in.Integration); err != nil {
		return err
	}
	if err := validateUnit("reflection_accuracy", in.ReflectionAccuracy); err != nil {
		return err
	}
	for i, v := range in.Purpose {
		if !finite(v) {
			return fmt.Errorf("purpose_vector[%d] is not finite: %w", i, consciousness.ErrOutOfRange)
		}
	}
	if !finite(in.PredictedLoss) {
		return fmt.Errorf("predicted_loss is not finite: %w", consciousness.ErrOutOfRange)
	}
	if !finite(in.ActualLoss) {
		return fmt.Errorf("actual_loss is not finite: %w", consciousness.ErrOutOfRange)
	}
	for i, c := range in.Candidates {
		if err := validateUnit(fmt.Sprintf("candidates[%d].coherence", i), c.Coherence); err != nil {
			return err
		}
		if err := validateUnit(fmt.Sprintf("candidates[%d].importance", i), c.Importance); err != nil {
			return err
		}
		if err := validateUnit(fmt.Sprintf("candidates[%d].alignment", i), c.Alignment); err != nil {
			return err
		}
	}
	return nil
}

func countSurvivors(candidates []workspace.Candidate, threshold float32) int {
	n := 0
	for _, c := range candidates {
		if c.Coherence >= threshold {
			n++
		}
	}
	return n
}

func validateUnit(field string, v float32) error {
	if !finite(v) || v < 0 || v > 1 {
		return fmt.Errorf("%s %v outside [0,1]: %w", field, v, consciousness.ErrOutOfRange)
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// #endregion helpers
