// pkg/enforce/boundary.go

package enforce

import (
	"github.com/mmp/dronewarden/pkg/config"
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/sigfun"
	"github.com/mmp/dronewarden/pkg/stl"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Boundary keeps the drone inside a safety box, flagging violation
// within SafeThreshold seconds of crossing any face at current
// velocity.
type Boundary struct {
	tti       *sigfun.TimeToIntercept
	prop      *stl.Prop
	useZ      bool
	nonlinear bool
	maxSpeed  float32
}

func NewBoundary(cfg config.Config) *Boundary {
	// Box is kept in the same axes the TTI geometry compares against:
	// north, east, and up (altitude) — not down — since BOUNDARY_Z_MIN/MAX
	// are themselves altitude bounds.
	box := dwmath.Extent3D{
		Lo: dwmath.Vec3{cfg.BoundaryXMin, cfg.BoundaryYMin, cfg.BoundaryZMin},
		Hi: dwmath.Vec3{cfg.BoundaryXMax, cfg.BoundaryYMax, cfg.BoundaryZMax},
	}
	tti := sigfun.NewTimeToIntercept(box, cfg.BoundarySafeTTIThreshold, cfg.MaxDroneSpeed)
	b := &Boundary{tti: tti, useZ: cfg.UseZVelocity, nonlinear: cfg.NonlinearPenalty, maxSpeed: cfg.MaxDroneSpeed}
	b.prop = stl.NewProp(b.eval)
	return b
}

func (b *Boundary) Name() string       { return "boundary" }
func (b *Boundary) Property() stl.Expr { return b.prop }

func (b *Boundary) eval(sig *trace.Signal, t int) (float32, bool) {
	raw := b.tti.Raw(
		sig.ValueAt("pos_north_m", t), sig.ValueAt("pos_east_m", t), sig.ValueAt("pos_down_m", t),
		sig.ValueAt("vel_north_m_s", t), sig.ValueAt("vel_east_m_s", t), sig.ValueAt("vel_down_m_s", t))
	r := b.tti.Normalize(raw, b.nonlinear)
	return r, raw >= 0
}

func (b *Boundary) Enforce(sig *trace.Signal, now int, proposed dwmath.Vec3) ([]dwmath.Vec3, bool) {
	if b.prop.Sat(sig, now) {
		return []dwmath.Vec3{proposed}, false
	}

	pos := dwmath.Vec3{sig.Value("pos_north_m"), sig.Value("pos_east_m"), sig.Value("pos_down_m")}
	vel := dwmath.Vec3{sig.Value("vel_north_m_s"), sig.Value("vel_east_m_s"), sig.Value("vel_down_m_s")}

	// The origin-directed candidate aims 2.5m above the current down
	// position (the -2.5 down hover altitude when starting from ground
	// level) rather than at ground level, so that heading to the origin
	// doesn't also mean diving.
	originRef := pos
	if b.useZ {
		originRef[2] = pos[2] + 2.5
	}
	originVel := toOrigin(originRef, b.useZ, b.maxSpeed)

	box := b.tti.Box
	closeToNorth := b.tti.CloseToNorth(pos[0], vel[0])
	closeToEast := b.tti.CloseToEast(pos[1], vel[1])
	closeToUp := b.tti.CloseToUp(-pos[2], -vel[2])

	var candidates []dwmath.Vec3
	switch {
	case closeToNorth && closeToEast && closeToUp:
		candidates = append(candidates, originVel)
	case closeToNorth && closeToEast:
		v := originVel
		v[2] = 0
		candidates = append(candidates, v)
	case closeToNorth && closeToUp:
		v := originVel
		v[1] = 0
		candidates = append(candidates, v)
	case closeToEast && closeToUp:
		v := originVel
		v[0] = 0
		candidates = append(candidates, v)
	case closeToNorth:
		for e := box.Lo[1] + 1; e < box.Hi[1]; e++ {
			for u := box.Lo[2] + 1; u < box.Hi[2]; u++ {
				target := dwmath.Vec3{0, e, -u}
				candidates = append(candidates, computeNEDtoTarget(pos, target, b.useZ, b.maxSpeed))
			}
		}
	case closeToEast:
		for n := box.Lo[0] + 1; n < box.Hi[0]; n++ {
			for u := box.Lo[2] + 1; u < box.Hi[2]; u++ {
				target := dwmath.Vec3{n, 0, -u}
				candidates = append(candidates, computeNEDtoTarget(pos, target, b.useZ, b.maxSpeed))
			}
		}
	case closeToUp:
		for n := box.Lo[0] + 1; n < box.Hi[0]; n++ {
			for e := box.Lo[1] + 1; e < box.Hi[1]; e++ {
				target := dwmath.Vec3{n, e, -2}
				candidates = append(candidates, computeNEDtoTarget(pos, target, b.useZ, b.maxSpeed))
			}
		}
	}

	candidates = append(candidates, originVel)
	return candidates, true
}
