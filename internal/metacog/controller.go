package metacog

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/conscious-engine/internal/consciousness"
)

// #region controller

// Controller runs the meta-cognitive feedback loop: it scores each
// prediction against the observed outcome and retunes its own sensitivity.
// Not safe for concurrent use; the orchestrator serializes calls.
type Controller struct {
	config     Config
	scores     []float32
	trend      float32
	hasTrend   bool
	lowStreak  int
	highStreak int
	tuning     Tuning
}

// NewController creates a controller with baseline tuning.
func NewController(config Config) *Controller {
	return &Controller{
		config: config,
		tuning: Tuning{
			LearningSignal: config.LearningBaseline,
			MonitoringHz:   config.FrequencyBaseline,
		},
	}
}

// #endregion controller

// #region update

// Update scores one prediction cycle and applies tuning side effects.
// MetaScore = sigma(2 * (predicted - actual)), clamped to [0,1]: the score is
// high when the loss came in below prediction and low when it overshot.
func (c *Controller) Update(predictedLoss, actualLoss float32) (float32, Tuning, error) {
	if err := validateFinite("predicted_loss", predictedLoss); err != nil {
		return 0, c.tuning, err
	}
	if err := validateFinite("actual_loss", actualLoss); err != nil {
		return 0, c.tuning, err
	}

	score := sigmoid(2 * (predictedLoss - actualLoss))

	// Rolling window, oldest evicted first.
	c.scores = append(c.scores, score)
	if len(c.scores) > c.config.WindowSize {
		c.scores = c.scores[1:]
	}

	// Exponentially smoothed trend; first score seeds it.
	if !c.hasTrend {
		c.trend = score
		c.hasTrend = true
	} else {
		c.trend = c.config.TrendAlpha*score + (1-c.config.TrendAlpha)*c.trend
	}

	// Streak accounting: a score on the other side of its threshold breaks
	// the opposing streak.
	if score < c.config.LowThreshold {
		c.lowStreak++
		c.highStreak = 0
	} else {
		c.lowStreak = 0
		if score > c.config.HighThreshold {
			c.highStreak++
		} else {
			c.highStreak = 0
		}
	}

	c.retune()

	return score, c.tuning, nil
}

// #endregion update

// #region retune

// retune applies multiplicative tuning adjustments with post-update clamps,
// so repeated streaks can never compound past the configured bounds.
func (c *Controller) retune() {
	if c.lowStreak >= c.config.LowsForBoost {
		c.tuning.LearningSignal *= c.config.LearningBoost
	}
	if c.tuning.LearningSignal > c.config.LearningCeiling {
		c.tuning.LearningSignal = c.config.LearningCeiling
	}
	if c.tuning.LearningSignal < c.config.LearningBaseline {
		c.tuning.LearningSignal = c.config.LearningBaseline
	}

	if c.highStreak >= c.config.HighsForSlowdown {
		c.tuning.MonitoringHz *= c.config.SlowdownScale
	}
	if c.lowStreak >= c.config.LowsForSpeedup {
		c.tuning.MonitoringHz *= c.config.SpeedupScale
	}
	if c.tuning.MonitoringHz < c.config.FrequencyFloor {
		c.tuning.MonitoringHz = c.config.FrequencyFloor
	}
	if c.tuning.MonitoringHz > c.config.FrequencyCap {
		c.tuning.MonitoringHz = c.config.FrequencyCap
	}
}

// #endregion retune

// #region accessors

// Tuning returns the current adaptive parameters.
func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// State returns a copy of the controller's internal state.
func (c *Controller) State() State {
	scores := make([]float32, len(c.scores))
	copy(scores, c.scores)
	return State{
		Scores:     scores,
		Trend:      c.trend,
		LowStreak:  c.lowStreak,
		HighStreak: c.highStreak,
		Tuning:     c.tuning,
	}
}

// #endregion accessors

// #region helpers

func sigmoid(x float32) float32 {
	v := float32(1.0 / (1.0 + math.Exp(-float64(x))))
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func validateFinite(field string, v float32) error {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%s %v is not finite: %w", field, v, consciousness.ErrOutOfRange)
	}
	return nil
}

// #endregion helpers
