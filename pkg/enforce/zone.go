// pkg/enforce/zone.go

package enforce

import (
	"github.com/mmp/dronewarden/pkg/config"
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/sigfun"
	"github.com/mmp/dronewarden/pkg/stl"
	"github.com/mmp/dronewarden/pkg/trace"
)

// ZoneElevation enforces a target altitude whenever the drone is inside
// a fixed north/east zone, climbing or descending toward it once
// violated. Recon and Missile are both instances of this enforcer,
// differing only in zone, target altitude, and candidate ordering.
type ZoneElevation struct {
	name         string
	dte          *sigfun.DistanceToElevationInZone
	prop         *stl.Prop
	goalAltitude float32
	maxSpeed     float32
	nonlinear    bool
	suggestRange bool
	// baseFirst places the plain climb/descend candidate before the
	// suggested-range grid rather than after it.
	baseFirst bool
}

func newZoneElevation(name string, cfg config.Config, goalAltitude float32, zone dwmath.Extent3D, baseFirst bool) *ZoneElevation {
	z := &ZoneElevation{
		name:         name,
		dte:          sigfun.NewDistanceToElevationInZone(goalAltitude, 1, zone),
		goalAltitude: goalAltitude,
		maxSpeed:     cfg.MaxDroneSpeed,
		nonlinear:    cfg.NonlinearPenalty,
		suggestRange: cfg.SuggestActionRange,
		baseFirst:    baseFirst,
	}
	z.prop = stl.NewProp(z.eval)
	return z
}

// NewRecon builds the recon-mission instance: reach RECON_HEIGHT over a
// [-5,5]x[-5,5] region. The z-bounds of the zone extent are unused by
// DistanceToElevationInZone but kept consistent with the rest of the
// package's Extent3D convention.
func NewRecon(cfg config.Config) *ZoneElevation {
	zone := dwmath.Extent3D{Lo: dwmath.Vec3{-5, -5, 0}, Hi: dwmath.Vec3{5, 5, 0}}
	return newZoneElevation("recon", cfg, cfg.ReconHeight, zone, false)
}

// NewMissile builds the missile-avoidance instance: climb to 7m over a
// [-10,-3]x[-10,-3] region (reusing the same SignalFunction shape as
// recon — "go to some elevation in some xy-region" — with a different
// zone and goal altitude, exactly as the source reuses ReconFun here).
func NewMissile(cfg config.Config) *ZoneElevation {
	zone := dwmath.Extent3D{Lo: dwmath.Vec3{-10, -10, 0}, Hi: dwmath.Vec3{-3, -3, 0}}
	return newZoneElevation("missile", cfg, 7.0, zone, true)
}

func (z *ZoneElevation) Name() string       { return z.name }
func (z *ZoneElevation) Property() stl.Expr { return z.prop }

func (z *ZoneElevation) eval(sig *trace.Signal, t int) (float32, bool) {
	r, already := z.dte.Raw(sig.ValueAt("pos_north_m", t), sig.ValueAt("pos_east_m", t), sig.ValueAt("pos_down_m", t))
	if already {
		return r, r >= 0
	}
	return z.dte.Normalize(r, z.nonlinear), r >= 0
}

func (z *ZoneElevation) Enforce(sig *trace.Signal, now int, proposed dwmath.Vec3) ([]dwmath.Vec3, bool) {
	if z.prop.Sat(sig, now) {
		return []dwmath.Vec3{proposed}, false
	}

	egoElevation := -sig.Value("pos_down_m")
	downVel := -z.maxSpeed
	if egoElevation >= z.goalAltitude {
		downVel = z.maxSpeed
	}
	base := dwmath.Vec3{0, 0, downVel}

	var candidates []dwmath.Vec3
	if z.baseFirst {
		candidates = append(candidates, base)
	}

	if z.suggestRange {
		const numIntervals = 5
		step := 2 * z.maxSpeed / numIntervals
		for i := -z.maxSpeed; i < z.maxSpeed; i += step {
			for j := -z.maxSpeed; j < z.maxSpeed; j += step {
				candidates = append(candidates, scaleToMagnitude(dwmath.Vec3{i, j, downVel}, z.maxSpeed))
			}
		}
	}

	if !z.baseFirst {
		candidates = append(candidates, base)
	}
	return candidates, true
}
