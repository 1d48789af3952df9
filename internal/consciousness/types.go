package consciousness

import "errors"

// VectorDim is the number of purpose-alignment components.
const VectorDim = 13

// #region errors
// ErrOutOfRange is returned when an input falls outside its documented bound.
// Shared by every validating component in the engine.
var ErrOutOfRange = errors.New("input out of range")

// #endregion errors

// #region factor
// Factor identifies one of the three consciousness sub-scores.
type Factor string

const (
	FactorIntegration     Factor = "integration"
	FactorReflection      Factor = "reflection"
	FactorDifferentiation Factor = "differentiation"
)

// #endregion factor

// #region metrics
// Metrics holds the three normalized sub-scores plus the combined level.
// Consciousness is always the product of the other three; never set it directly.
type Metrics struct {
	Integration     float32
	Reflection      float32
	Differentiation float32
	Consciousness   float32

	// Bottleneck is the smallest of I, R, D. Ties resolve I > R > D.
	Bottleneck Factor
}

// #endregion metrics
