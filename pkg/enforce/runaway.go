// pkg/enforce/runaway.go

package enforce

import (
	"github.com/mmp/dronewarden/pkg/config"
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/sigfun"
	"github.com/mmp/dronewarden/pkg/stl"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Runaway keeps the adversary at or beyond the configured chase
// distance, proposing a flight vector away from it (at max speed) once
// violated.
type Runaway struct {
	dtt          *sigfun.DistanceToTarget
	prop         *stl.Prop
	maxSpeed     float32
	enemySpeed   float32
	useZ         bool
	nonlinear    bool
	suggestRange bool
}

func NewRunaway(cfg config.Config) *Runaway {
	r := &Runaway{
		dtt:          sigfun.NewDistanceToTarget(cfg.EnemyChaseDist, cfg.CatchDistance),
		maxSpeed:     cfg.MaxDroneSpeed,
		enemySpeed:   cfg.EnemyDroneSpeed,
		useZ:         cfg.UseZVelocity,
		nonlinear:    cfg.NonlinearPenalty,
		suggestRange: cfg.SuggestActionRange,
	}
	r.prop = stl.NewProp(r.eval)
	return r
}

func (r *Runaway) Name() string       { return "runaway" }
func (r *Runaway) Property() stl.Expr { return r.prop }

func (r *Runaway) own(sig *trace.Signal, t int) dwmath.Vec3 {
	return dwmath.Vec3{sig.ValueAt("pos_north_m", t), sig.ValueAt("pos_east_m", t), sig.ValueAt("pos_down_m", t)}
}

func (r *Runaway) adversary(sig *trace.Signal, t int) dwmath.Vec3 {
	return dwmath.Vec3{sig.ValueAt("enemy_pos_north_m", t), sig.ValueAt("enemy_pos_east_m", t), sig.ValueAt("enemy_pos_down_m", t)}
}

func (r *Runaway) eval(sig *trace.Signal, t int) (float32, bool) {
	raw := r.dtt.Raw(r.own(sig, t), r.adversary(sig, t))
	return r.dtt.Normalize(raw, r.nonlinear), raw >= 0
}

func (r *Runaway) Enforce(sig *trace.Signal, now int, proposed dwmath.Vec3) ([]dwmath.Vec3, bool) {
	if r.prop.Sat(sig, now) {
		return []dwmath.Vec3{proposed}, false
	}

	own := r.own(sig, now)
	adversary := r.adversary(sig, now)
	away := computeNEDtoTarget(adversary, own, r.useZ, r.maxSpeed)

	candidates := []dwmath.Vec3{away}

	if !r.suggestRange {
		return candidates, true
	}

	acceptableDeviation := max((r.maxSpeed-r.enemySpeed)/r.maxSpeed, 0)
	sqrtDev := dwmath.Sqrt(acceptableDeviation)
	if sqrtDev < 1e-6 {
		return candidates, true
	}

	const numIntervals = 5
	step := sqrtDev * 2 / numIntervals
	for i := -sqrtDev; i <= sqrtDev; i += step {
		for j := -sqrtDev; j <= sqrtDev; j += step {
			for k := -sqrtDev; k <= sqrtDev; k += step {
				offset := dwmath.Vec3{i, j, k}
				v := dwmath.Add3f(away, offset)
				candidates = append(candidates, scaleToMagnitude(v, r.maxSpeed))
			}
		}
	}
	return candidates, true
}

// scaleToMagnitude rescales v to have length mag, falling back to the
// deterministic climb direction if v is within epsilon of zero length.
func scaleToMagnitude(v dwmath.Vec3, mag float32) dwmath.Vec3 {
	l := dwmath.Length3f(v)
	if l < 1e-6 {
		return dwmath.Vec3{0, 0, -mag}
	}
	return dwmath.Scale3f(v, mag/l)
}
