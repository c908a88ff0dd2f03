// pkg/sigfun/tti.go

package sigfun

import dwmath "github.com/mmp/dronewarden/pkg/math"

// TimeToIntercept is the boundary SignalFunction: its raw value is how
// many seconds remain (at current velocity, per axis) before the own
// drone crosses the edge of the safety box, minus the configured safe
// threshold, so the property is violated once the drone gets within
// safeThreshold seconds of leaving the box (or has already left it, in
// which case the raw time-to-intercept goes negative).
type TimeToIntercept struct {
	Box           dwmath.Extent3D
	SafeThreshold float32
	min, max       float32
}

// NewTimeToIntercept builds a TimeToIntercept SF for box, deriving its
// normalization range the same way the boundary enforcer derives its
// own "2 seconds past the edge at max speed" worst case.
func NewTimeToIntercept(box dwmath.Extent3D, safeThreshold, maxSpeed float32) *TimeToIntercept {
	f := &TimeToIntercept{Box: box, SafeThreshold: safeThreshold}
	f.min = axisTTI(box.Hi[0]+maxSpeed*2, 0, box.Lo[0], box.Hi[0]) - safeThreshold
	f.max = 2*safeThreshold - safeThreshold
	return f
}

func (f *TimeToIntercept) Min() float32 { return f.min }
func (f *TimeToIntercept) Max() float32 { return f.max }

// axisTTI returns the time to intercept the [lower, upper] interval
// along one axis given current position and velocity on that axis; a
// velocity of zero while inside the interval contributes no constraint
// (sentinel 1000).
func axisTTI(pos, vel, lower, upper float32) float32 {
	res := float32(1000)
	switch {
	case pos <= lower:
		if vel <= 0 {
			res = min(res, (pos-lower)+vel)
		}
		if vel > 0 {
			res = min(res, (pos-lower)/vel)
		}
	case pos >= upper:
		if vel < 0 {
			res = min(res, (upper-pos)/vel)
		}
		if vel >= 0 {
			res = min(res, (upper-pos)-vel)
		}
	default:
		if vel < 0 {
			res = min(res, dwmath.Abs(lower-pos)/(-vel))
		}
		if vel > 0 {
			res = min(res, dwmath.Abs(upper-pos)/vel)
		}
	}
	return res
}

// ComputeTTI returns the time-to-intercept of the box across all three
// axes: the minimum (soonest) of the per-axis times.
func (f *TimeToIntercept) ComputeTTI(posNorth, posEast, posUp, velNorth, velEast, velUp float32) float32 {
	tn := axisTTI(posNorth, velNorth, f.Box.Lo[0], f.Box.Hi[0])
	te := axisTTI(posEast, velEast, f.Box.Lo[1], f.Box.Hi[1])
	tu := axisTTI(posUp, velUp, f.Box.Lo[2], f.Box.Hi[2])
	return min(tn, min(te, tu))
}

// Raw computes the un-normalized robustness given an own-drone NED
// position and velocity frame.
func (f *TimeToIntercept) Raw(posNorth, posEast, posDown, velNorth, velEast, velDown float32) float32 {
	tti := f.ComputeTTI(posNorth, posEast, -posDown, velNorth, velEast, -velDown)
	return tti - f.SafeThreshold
}

// Normalize applies the shared robustness normalization contract to a
// raw value previously computed by Raw.
func (f *TimeToIntercept) Normalize(raw float32, nonlinear bool) float32 {
	return Normalize(raw, f.min, f.max, nonlinear)
}

func (f *TimeToIntercept) closeToLowerAxis(pos, vel, lower float32) bool {
	return pos < lower || (vel < 0 && dwmath.Abs(lower-pos)/(-vel) < f.SafeThreshold)
}

func (f *TimeToIntercept) closeToUpperAxis(pos, vel, upper float32) bool {
	return pos > upper || (vel > 0 && dwmath.Abs(upper-pos)/vel < f.SafeThreshold)
}

// CloseToNorth, CloseToEast, and CloseToUp report whether the drone is
// within SafeThreshold seconds (at current velocity) of leaving the box
// along that axis, or already outside it on that axis.
func (f *TimeToIntercept) CloseToNorth(posNorth, velNorth float32) bool {
	return f.closeToLowerAxis(posNorth, velNorth, f.Box.Lo[0]) || f.closeToUpperAxis(posNorth, velNorth, f.Box.Hi[0])
}

func (f *TimeToIntercept) CloseToEast(posEast, velEast float32) bool {
	return f.closeToLowerAxis(posEast, velEast, f.Box.Lo[1]) || f.closeToUpperAxis(posEast, velEast, f.Box.Hi[1])
}

func (f *TimeToIntercept) CloseToUp(posUp, velUp float32) bool {
	return f.closeToLowerAxis(posUp, velUp, f.Box.Lo[2]) || f.closeToUpperAxis(posUp, velUp, f.Box.Hi[2])
}
