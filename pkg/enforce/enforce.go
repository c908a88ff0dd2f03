// pkg/enforce/enforce.go

package enforce

import (
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/stl"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Enforcer binds one STL property to a candidate-velocity generator: it
// passes the proposed velocity through unchanged when the property is
// satisfied, and proposes a nonempty set of alternatives when violated.
// Every enforcer owns its property exclusively; only the velocity's
// translational north/east/down components are ever mutated by a
// candidate, never yaw.
type Enforcer interface {
	Name() string
	Property() stl.Expr
	// Enforce returns the candidate velocities for the current tick
	// given the own-drone's proposed translational velocity. The
	// boolean reports whether the property was active (violated).
	Enforce(sig *trace.Signal, now int, proposed dwmath.Vec3) (candidates []dwmath.Vec3, active bool)
}

// computeNEDtoTarget returns the unit vector from curr to target,
// rescaled to speed. If useZ is false the down component is forced to
// zero regardless of curr/target's down values, matching how the
// vertical axis is disabled throughout when USE_Z_VELOCITY is off.
func computeNEDtoTarget(curr, target dwmath.Vec3, useZ bool, speed float32) dwmath.Vec3 {
	delta := dwmath.Sub3f(target, curr)
	if !useZ {
		delta[2] = 0
	}
	l := dwmath.Length3f(delta)
	if l < 1e-6 {
		// Numeric hazard: curr and target coincide. Fall back to a
		// deterministic climb rather than dividing by ~zero.
		return dwmath.Vec3{0, 0, -speed}
	}
	return dwmath.Scale3f(delta, speed/l)
}

// toOrigin returns the unit vector from pos toward the origin, rescaled
// to speed, with the same numeric-hazard fallback as computeNEDtoTarget.
func toOrigin(pos dwmath.Vec3, useZ bool, speed float32) dwmath.Vec3 {
	p := pos
	if !useZ {
		p[2] = 0
	}
	l := dwmath.Length3f(p)
	if l < 1e-6 {
		return dwmath.Vec3{0, 0, -speed}
	}
	return dwmath.Scale3f(dwmath.Scale3f(p, -1), speed/l)
}
