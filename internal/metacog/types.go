package metacog

// #region config
// Config holds tuning knobs for the meta-cognitive feedback loop.
type Config struct {
	WindowSize int     // rolling window of recent meta scores
	TrendAlpha float32 // EMA smoothing factor for the score trend

	LowThreshold  float32 // score below this counts toward the low streak
	HighThreshold float32 // score above this counts toward the high streak

	LearningBaseline float32 // starting value of the learning-rate-like signal
	LearningBoost    float32 // multiplier applied after LowsForBoost consecutive lows
	LearningCeiling  float32 // hard cap (2x baseline)
	LowsForBoost     int

	FrequencyBaseline float32 // monitoring frequency in Hz
	FrequencyFloor    float32
	FrequencyCap      float32
	SlowdownScale     float32 // applied after HighsForSlowdown consecutive highs
	SpeedupScale      float32 // applied after LowsForSpeedup consecutive lows
	HighsForSlowdown  int
	LowsForSpeedup    int
}

// DefaultConfig returns the standard feedback-loop parameters.
func DefaultConfig() Config {
	return Config{
		WindowSize: 20,
		TrendAlpha: 0.3,

		LowThreshold:  0.5,
		HighThreshold: 0.9,

		LearningBaseline: 0.01,
		LearningBoost:    1.5,
		LearningCeiling:  0.02,
		LowsForBoost:     5,

		FrequencyBaseline: 1.0,
		FrequencyFloor:    0.1,
		FrequencyCap:      10.0,
		SlowdownScale:     0.8,
		SpeedupScale:      1.5,
		HighsForSlowdown:  5,
		LowsForSpeedup:    3,
	}
}

// #endregion config

// #region tuning
// Tuning carries the adaptive parameters exposed to downstream consumers.
type Tuning struct {
	LearningSignal float32 // learning-rate-like signal, bounded by LearningCeiling
	MonitoringHz   float32 // monitoring frequency, bounded to [FrequencyFloor, FrequencyCap]
}

// #endregion tuning

// #region state
// State is a read-only snapshot of the controller's internal state.
type State struct {
	Scores     []float32 // most recent last, at most WindowSize entries
	Trend      float32   // exponentially smoothed score trend
	LowStreak  int
	HighStreak int
	Tuning     Tuning
}

// #endregion state
