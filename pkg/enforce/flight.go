// pkg/enforce/flight.go

package enforce

import (
	"github.com/mmp/dronewarden/pkg/config"
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/sigfun"
	"github.com/mmp/dronewarden/pkg/stl"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Flight keeps the drone above a minimum safe altitude of 1m. If the
// vertical axis is disabled (UseZVelocity false), the property is
// always treated as satisfied — climbing isn't an available action.
type Flight struct {
	dtg          *sigfun.DistanceToGround
	prop         *stl.Prop
	useZ         bool
	nonlinear    bool
	maxSpeed     float32
	suggestRange bool
}

func NewFlight(cfg config.Config) *Flight {
	f := &Flight{
		dtg:          sigfun.NewDistanceToGround(1),
		useZ:         cfg.UseZVelocity,
		nonlinear:    cfg.NonlinearPenalty,
		maxSpeed:     cfg.MaxDroneSpeed,
		suggestRange: cfg.SuggestActionRange,
	}
	f.prop = stl.NewProp(f.eval)
	return f
}

func (f *Flight) Name() string       { return "flight" }
func (f *Flight) Property() stl.Expr { return f.prop }

func (f *Flight) eval(sig *trace.Signal, t int) (float32, bool) {
	if !f.useZ {
		return 1, true
	}
	raw := f.dtg.Raw(sig.ValueAt("pos_down_m", t))
	return f.dtg.Normalize(raw, f.nonlinear), raw >= 0
}

func (f *Flight) Enforce(sig *trace.Signal, now int, proposed dwmath.Vec3) ([]dwmath.Vec3, bool) {
	if !f.useZ || f.prop.Sat(sig, now) {
		return []dwmath.Vec3{proposed}, false
	}

	downVel := -f.maxSpeed
	climb := dwmath.Vec3{0, 0, downVel}
	candidates := []dwmath.Vec3{climb}

	if !f.suggestRange {
		return candidates, true
	}

	const numIntervals = 5
	step := 2 * f.maxSpeed / numIntervals
	for i := -f.maxSpeed; i < f.maxSpeed; i += step {
		for j := -f.maxSpeed; j < f.maxSpeed; j += step {
			candidates = append(candidates, scaleToMagnitude(dwmath.Vec3{i, j, downVel}, f.maxSpeed))
		}
	}
	return candidates, true
}
