// pkg/sigfun/dtt.go

package sigfun

import dwmath "github.com/mmp/dronewarden/pkg/math"

// DistanceToTarget is the runaway SignalFunction: raw robustness is how
// far beyond the chase distance the adversary currently is, so the
// property is violated once the adversary gets within ChaseDistance of
// the own drone.
type DistanceToTarget struct {
	ChaseDistance float32
	CatchDistance float32
	min, max      float32
}

// NewDistanceToTarget mirrors the source's minValue/maxValue derivation:
// minValue uses CatchDistance as the worst case (the adversary is
// essentially touching), maxValue caps sensitivity at twice the chase
// distance.
func NewDistanceToTarget(chaseDistance, catchDistance float32) *DistanceToTarget {
	safeDist := chaseDistance
	return &DistanceToTarget{
		ChaseDistance: chaseDistance,
		CatchDistance: catchDistance,
		min:           catchDistance + 0.1 - safeDist,
		max:           safeDist*2 - safeDist,
	}
}

func (f *DistanceToTarget) Min() float32 { return f.min }
func (f *DistanceToTarget) Max() float32 { return f.max }

// Raw returns distance(own, adversary) - ChaseDistance.
func (f *DistanceToTarget) Raw(own, adversary dwmath.Vec3) float32 {
	return dwmath.Distance3f(own, adversary) - f.ChaseDistance
}

func (f *DistanceToTarget) Normalize(raw float32, nonlinear bool) float32 {
	return Normalize(raw, f.min, f.max, nonlinear)
}
