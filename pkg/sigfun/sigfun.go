// pkg/sigfun/sigfun.go

package sigfun

import (
	lru "github.com/hashicorp/golang-lru/v2"

	dwmath "github.com/mmp/dronewarden/pkg/math"
)

// SignalFunction maps a Signal frame (accessed through ValueAt-style
// reads, supplied by the caller as a plain func) to a raw, un-normalized
// robustness value, together with the [minValue, maxValue] range that
// Normalize clips and rescales against. Concrete SFs compute Raw and fix
// their own Min/Max at construction from the active configuration.
type SignalFunction interface {
	Min() float32
	Max() float32
}

// curveCache memoizes scaleToCurve by its quantized input: every SF
// normalization on every tick, for every enforcer, runs this curve, and
// the input domain is a bounded [-1, 0] range, so a small fixed-size LRU
// keyed on the quantized value avoids recomputing dwmath.Pow for inputs
// that repeat across ticks.
var curveCache, _ = lru.New[int32, float32](4096)

const curveQuantum = 1.0 / 4096.0

// scaleToCurve exaggerates a value already expressed in [-1, 0] so that
// negative (violating) values dominate positive (satisfying) ones when
// summed; base=32 sets how aggressively, matching the constant used
// throughout the original robustness normalization.
func scaleToCurve(x float32) float32 {
	key := int32(x / curveQuantum)
	if v, ok := curveCache.Get(key); ok {
		return v
	}

	const base = 32
	v := -((dwmath.Pow(base, -x) - 1) / (base - 1)) + x
	curveCache.Add(key, v)
	return v
}

// Normalize clips value to [min, max] and rescales: negative values map
// linearly (or, if nonlinear is set, through scaleToCurve) onto [-2, 0];
// non-negative values map linearly onto [0, 1]. This asymmetry is
// intentional — it's what makes a coordinator's weighted sum of
// robustness values dominated by violations rather than satisfactions.
func Normalize(value, min, max float32, nonlinear bool) float32 {
	if value == 0 {
		return 0
	}
	if value < 0 {
		if value < min {
			value = min
		}
		x := (value-min)/(0-min) - 1
		if nonlinear {
			return scaleToCurve(x)
		}
		const penaltyFactor = 2
		return penaltyFactor * x
	}

	if value > max {
		value = max
	}
	return (value - 0) / (max - 0)
}
