package consciousness

import (
	"fmt"
	"math"
)

// #region estimate

// Estimate computes the consciousness level C = I * R * D.
//
// I is the externally supplied synchronization order parameter, taken as-is.
// R is the sigmoid-mapped self-reflection accuracy, re-clamped to [0,1].
// D is the normalized Shannon entropy of the purpose vector (L1 normalization
// over absolute component values, divided by log2(13)); an all-zero vector
// yields D = 0 rather than an error.
//
// Pure function: identical inputs always produce identical Metrics.
func Estimate(integration, reflectionAccuracy float32, purpose [VectorDim]float32) (Metrics, error) {
	if err := validateUnit("integration", integration); err != nil {
		return Metrics{}, err
	}
	if err := validateUnit("reflection_accuracy", reflectionAccuracy); err != nil {
		return Metrics{}, err
	}
	for i, v := range purpose {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return Metrics{}, fmt.Errorf("purpose_vector[%d] is not finite: %w", i, ErrOutOfRange)
		}
	}

	i := integration
	// Map [0,1] onto the sigmoid's active region: sigma(4a - 2) spans ~[0.12, 0.88].
	r := sigmoid(4*reflectionAccuracy - 2)
	d := normalizedEntropy(purpose)

	c := clamp(i * r * d)

	return Metrics{
		Integration:     i,
		Reflection:      r,
		Differentiation: d,
		Consciousness:   c,
		Bottleneck:      bottleneck(i, r, d),
	}, nil
}

// #endregion estimate

// #region bottleneck

// bottleneck returns the smallest factor; ties resolve in priority order I > R > D.
func bottleneck(i, r, d float32) Factor {
	f := FactorIntegration
	min := i
	if r < min {
		f = FactorReflection
		min = r
	}
	if d < min {
		f = FactorDifferentiation
	}
	return f
}

// #endregion bottleneck

// #region helpers

// sigmoid computes the logistic function clamped to [0,1].
func sigmoid(x float32) float32 {
	return clamp(float32(1.0 / (1.0 + math.Exp(-float64(x)))))
}

// normalizedEntropy computes Shannon entropy over the L1-normalized absolute
// values of the purpose vector, scaled by 1/log2(13) into [0,1].
// A vector with total mass under 1e-6 carries no information and returns 0.
func normalizedEntropy(purpose [VectorDim]float32) float32 {
	var sum float64
	for _, v := range purpose {
		sum += math.Abs(float64(v))
	}
	if sum <= 1e-6 {
		return 0
	}

	var entropy float64
	for _, v := range purpose {
		p := math.Abs(float64(v)) / sum
		if p < 1e-6 {
			p = 1e-6
		}
		entropy -= p * math.Log2(p)
	}

	maxEntropy := math.Log2(VectorDim)
	return clamp(float32(entropy / maxEntropy))
}

// validateUnit rejects values outside [0,1] or non-finite.
func validateUnit(field string, v float32) error {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || v < 0 || v > 1 {
		return fmt.Errorf("%s %v outside [0,1]: %w", field, v, ErrOutOfRange)
	}
	return nil
}

// clamp restricts v to [0, 1].
func clamp(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
