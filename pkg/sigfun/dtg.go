// pkg/sigfun/dtg.go

package sigfun

// DistanceToGround is the flight SignalFunction: raw robustness is
// altitude above ground minus the configured safe altitude, so the
// property is violated once the drone descends within SafeDistance of
// the ground (ground_z is assumed flat at 0).
type DistanceToGround struct {
	SafeDistance float32
	min, max     float32
}

func NewDistanceToGround(safeDistance float32) *DistanceToGround {
	return &DistanceToGround{
		SafeDistance: safeDistance,
		min:          0 - safeDistance,
		max:          safeDistance*2 - safeDistance,
	}
}

func (f *DistanceToGround) Min() float32 { return f.min }
func (f *DistanceToGround) Max() float32 { return f.max }

// Raw takes the NED down-position (down positive toward ground) and
// returns altitude minus the safe distance threshold.
func (f *DistanceToGround) Raw(posDown float32) float32 {
	altitude := -posDown
	return altitude - f.SafeDistance
}

func (f *DistanceToGround) Normalize(raw float32, nonlinear bool) float32 {
	return Normalize(raw, f.min, f.max, nonlinear)
}
