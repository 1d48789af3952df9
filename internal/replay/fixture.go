package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/engine"
	"github.com/danielpatrickdp/conscious-engine/internal/workspace"
	"github.com/google/uuid"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Config          FixtureConfig           `json:"config"`
	Ticks           []FixtureTick           `json:"ticks"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureConfig carries the engine parameters a fixture may override. Zero
// values fall through to the engine defaults.
type FixtureConfig struct {
	InitialPurpose      []float32 `json:"initial_purpose,omitempty"`
	InactivityTimeoutMs int64     `json:"inactivity_timeout_ms,omitempty"`
}

// FixtureCandidate mirrors workspace.Candidate with JSON tags.
type FixtureCandidate struct {
	ID         string  `json:"id"`
	Coherence  float32 `json:"coherence"`
	Importance float32 `json:"importance"`
	Alignment  float32 `json:"alignment"`
}

// FixtureTick is one recorded tick input. ElapsedMs advances the synthetic
// clock before the tick fires; zero defaults to one second.
type FixtureTick struct {
	TickID             string             `json:"tick_id"`
	ElapsedMs          int64              `json:"elapsed_ms,omitempty"`
	Integration        float32            `json:"integration"`
	ReflectionAccuracy float32            `json:"reflection_accuracy"`
	Purpose            [13]float32        `json:"purpose"`
	PredictedLoss      float32            `json:"predicted_loss"`
	ActualLoss         float32            `json:"actual_loss"`
	Candidates         []FixtureCandidate `json:"candidates,omitempty"`
}

// FixtureExpectedResult captures the expected outcome per tick.
type FixtureExpectedResult struct {
	TickID     string `json:"tick_id"`
	Mode       string `json:"mode"`
	WinnerID   string `json:"winner_id,omitempty"`
	Conflict   bool   `json:"conflict"`
	Reflection bool   `json:"reflection"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToEngineConfig applies fixture overrides onto the default engine config.
func (c *FixtureConfig) ToEngineConfig() engine.Config {
	config := engine.DefaultConfig()
	if len(c.InitialPurpose) > 0 {
		var purpose [13]float32
		for i := 0; i < len(purpose) && i < len(c.InitialPurpose); i++ {
			purpose[i] = c.InitialPurpose[i]
		}
		config.InitialPurpose = purpose
	}
	if c.InactivityTimeoutMs > 0 {
		config.Mode.InactivityTimeout = time.Duration(c.InactivityTimeoutMs) * time.Millisecond
	}
	return config
}

// ToTickInput converts a fixture tick to a domain TickInput.
func (ft *FixtureTick) ToTickInput() (engine.TickInput, error) {
	var candidates []workspace.Candidate
	for i, fc := range ft.Candidates {
		id, err := uuid.Parse(fc.ID)
		if err != nil {
			return engine.TickInput{}, fmt.Errorf("tick %s candidate %d: %w", ft.TickID, i, err)
		}
		candidates = append(candidates, workspace.Candidate{
			ID:         id,
			Coherence:  fc.Coherence,
			Importance: fc.Importance,
			Alignment:  fc.Alignment,
		})
	}
	return engine.TickInput{
		Integration:        ft.Integration,
		ReflectionAccuracy: ft.ReflectionAccuracy,
		Purpose:            ft.Purpose,
		PredictedLoss:      ft.PredictedLoss,
		ActualLoss:         ft.ActualLoss,
		Candidates:         candidates,
	}, nil
}

// #endregion fixture-loader
