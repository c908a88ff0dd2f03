// pkg/math/core.go

package math

import (
	"math"
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Mathematical constants used throughout the supervisor's float32 math.
const (
	Pi = gomath.Pi
)

var Infinity float32 = float32(math.Inf(1))

func Degrees(r float32) float32 {
	return r * 180 / Pi
}

func Radians(d float32) float32 {
	return d / 180 * Pi
}

func Sqrt(a float32) float32 {
	return float32(gomath.Sqrt(float64(a)))
}

// Sign returns 1 if v > 0, -1 if v < 0, or 0 if v == 0.
func Sign(v float32) float32 {
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}

// Abs returns the absolute value of x.
func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Pow(a, b float32) float32 {
	return float32(gomath.Pow(float64(a), float64(b)))
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

// Clamp restricts x to the range [low, high].
func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// Lerp performs linear interpolation between a and b using factor x in [0,1].
func Lerp(x, a, b float32) float32 {
	return (1-x)*a + x*b
}

// NearZero reports whether v is within eps of zero, the standard hazard
// guard against division by a value that is mathematically zero but not
// exactly representable after float32 accumulation.
func NearZero(v, eps float32) bool {
	return Abs(v) < eps
}
