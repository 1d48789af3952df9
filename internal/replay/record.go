package replay

import "github.com/danielpatrickdp/conscious-engine/internal/engine"

// #region outcome-record

// OutcomeRecord is the JSON-serializable subset of a tick outcome that the
// live engine records and the replay and export tools read back.
type OutcomeRecord struct {
	Mode          string  `json:"mode"`
	WinnerID      string  `json:"winner_id,omitempty"`
	Conflict      bool    `json:"conflict"`
	Reflection    bool    `json:"reflection"`
	Consciousness float32 `json:"consciousness"`
	MetaScore     float32 `json:"meta_score"`
}

// RecordOutcome projects a tick outcome onto its recorded form.
func RecordOutcome(out engine.TickOutcome) OutcomeRecord {
	r := OutcomeRecord{
		Mode:          string(out.Mode),
		Conflict:      out.Conflict,
		Reflection:    out.Trigger != nil,
		Consciousness: out.Metrics.Consciousness,
		MetaScore:     out.MetaScore,
	}
	if out.Winner != nil {
		r.WinnerID = out.Winner.ID.String()
	}
	return r
}

// ToExpected converts a recorded outcome into a fixture expectation.
func (r OutcomeRecord) ToExpected(tickID string) FixtureExpectedResult {
	return FixtureExpectedResult{
		TickID:     tickID,
		Mode:       r.Mode,
		WinnerID:   r.WinnerID,
		Conflict:   r.Conflict,
		Reflection: r.Reflection,
	}
}

// #endregion outcome-record
