// pkg/sigfun/recon.go

package sigfun

import dwmath "github.com/mmp/dronewarden/pkg/math"

// DistanceToElevationInZone is shared by the recon and missile
// enforcers: inside a rectangular zone, robustness rewards holding a
// target altitude; outside the zone, robustness is a flat zero
// regardless of altitude. That asymmetry is intentional and carried
// over unchanged — leaving the zone can look like an improvement in
// robustness even though the drone hasn't gotten any safer, which is
// the tradeoff this SF is reused for in the missile case (the zone IS
// the danger) but is a known quirk in the recon case (the zone is the
// objective).
type DistanceToElevationInZone struct {
	GoalAltitude    float32
	AcceptableRange float32
	Zone            dwmath.Extent3D // only the north/east extents are used
	min, max        float32
}

func NewDistanceToElevationInZone(goalAltitude, acceptableRange float32, zone dwmath.Extent3D) *DistanceToElevationInZone {
	f := &DistanceToElevationInZone{
		GoalAltitude:    goalAltitude,
		AcceptableRange: acceptableRange,
		Zone:            zone,
	}
	f.min = -acceptableRange
	f.max = f.computeDTE(goalAltitude)
	return f
}

func (f *DistanceToElevationInZone) Min() float32 { return f.min }
func (f *DistanceToElevationInZone) Max() float32 { return f.max }

func (f *DistanceToElevationInZone) computeDTE(altitude float32) float32 {
	delta := dwmath.Abs(altitude - f.GoalAltitude)
	return f.AcceptableRange - delta
}

// InZone reports whether (posNorth, posEast) falls within the zone's
// north/east rectangle.
func (f *DistanceToElevationInZone) InZone(posNorth, posEast float32) bool {
	return posNorth >= f.Zone.Lo[0] && posNorth <= f.Zone.Hi[0] &&
		posEast >= f.Zone.Lo[1] && posEast <= f.Zone.Hi[1]
}

// Raw returns the un-normalized robustness for a position. Unlike the
// other SFs, the out-of-zone branch returns a value that is already in
// normalized units (0); callers should not pass it back through
// Normalize a second time.
func (f *DistanceToElevationInZone) Raw(posNorth, posEast, posDown float32) (value float32, alreadyNormalized bool) {
	if f.InZone(posNorth, posEast) {
		altitude := -posDown
		return f.computeDTE(altitude), false
	}
	return 0, true
}

func (f *DistanceToElevationInZone) Normalize(raw float32, nonlinear bool) float32 {
	return Normalize(raw, f.min, f.max, nonlinear)
}

// Value computes the fully normalized robustness for a position in one
// call, honoring the in-zone/out-of-zone branch above.
func (f *DistanceToElevationInZone) Value(posNorth, posEast, posDown float32, nonlinear bool) float32 {
	raw, already := f.Raw(posNorth, posEast, posDown)
	if already {
		return raw
	}
	return f.Normalize(raw, nonlinear)
}
