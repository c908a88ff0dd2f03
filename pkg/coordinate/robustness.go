// pkg/coordinate/robustness.go

package coordinate

import (
	dwmath "github.com/mmp/dronewarden/pkg/math"
	dwrand "github.com/mmp/dronewarden/pkg/rand"
	"github.com/mmp/dronewarden/pkg/stl"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Robustness resolves conflicts by one-step-ahead synthesis: it
// estimates next tick's trace under each candidate action, scores every
// active property's robustness against that estimate, and picks the
// action with the greatest weighted sum. When SynthesizeActions is set
// it also searches the space between the enforcers' own candidates for
// actions none of them proposed directly.
type Robustness struct {
	set

	tickDuration   float32
	ticksToCorrect float32
	enemySpeed     float32
	maxSpeed       float32
	useZ           bool

	synthesize           bool
	chooseLeastDifferent bool
	granularity          uint

	rng dwrand.Rand
}

type RobustnessConfig struct {
	TickDuration               float32
	TicksToCorrect             float32
	EnemyDroneSpeed            float32
	MaxDroneSpeed              float32
	UseZVelocity               bool
	SynthesizeActions          bool
	ChooseLeastDifferentAction bool
	RandomSearchGranularity    uint
	Seed                       uint64
}

func NewRobustness(cfg RobustnessConfig) *Robustness {
	return &Robustness{
		tickDuration:         cfg.TickDuration,
		ticksToCorrect:       cfg.TicksToCorrect,
		enemySpeed:           cfg.EnemyDroneSpeed,
		maxSpeed:             cfg.MaxDroneSpeed,
		useZ:                 cfg.UseZVelocity,
		synthesize:           cfg.SynthesizeActions,
		chooseLeastDifferent: cfg.ChooseLeastDifferentAction,
		granularity:          cfg.RandomSearchGranularity,
		rng:                  dwrand.New(cfg.Seed),
	}
}

func (*Robustness) Name() string { return "robustness" }

func (r *Robustness) Coordinate(sig *trace.Signal, now int, proposed dwmath.Vec3) (dwmath.Vec3, error) {
	actives := r.active(sig, now, proposed)
	switch len(actives) {
	case 0:
		return proposed, nil
	case 1:
		if r.chooseLeastDifferent {
			return leastDifferent(proposed, actives[0].candidates), nil
		}
		return actives[0].first(), nil
	}

	properties := make([]stl.Expr, len(actives))
	weights := make([]float32, len(actives))
	var conflicting []dwmath.Vec3
	for i, a := range actives {
		properties[i] = a.enforcer.Property()
		weights[i] = a.weight
		conflicting = append(conflicting, a.candidates...)
	}

	return r.optimalAction(sig, now, properties, weights, conflicting), nil
}

// optimalAction scores every candidate (the enforcers' own proposals,
// plus a randomized search of the space between them when synthesis is
// enabled) against the weighted sum of every active property's
// estimated next-tick robustness, and returns the highest-scoring one.
func (r *Robustness) optimalAction(sig *trace.Signal, now int, properties []stl.Expr, weights []float32, conflicting []dwmath.Vec3) dwmath.Vec3 {
	potential := conflicting
	if r.synthesize {
		potential = append(r.reasonableActions(conflicting), conflicting...)
	}

	var maxRob float32
	var maxAction dwmath.Vec3
	first := true
	for _, action := range potential {
		frame := r.estimateFrame(sig, now, action)
		rob := trace.ScopedWithFrame(sig, frame, func(s *trace.Signal) float32 {
			var total float32
			for i, p := range properties {
				total += weights[i] * p.Robustness(s, now+1)
			}
			return total
		})
		if rob > maxRob || first {
			maxRob = rob
			maxAction = action
			first = false
		}
	}
	return maxAction
}

// reasonableActions randomly samples the axis-aligned box spanned by
// base (the enforcers' own candidate actions), at a resolution set by
// RandomSearchGranularity, rescaling every sample to max speed.
func (r *Robustness) reasonableActions(base []dwmath.Vec3) []dwmath.Vec3 {
	if len(base) == 0 {
		return nil
	}

	actions := append([]dwmath.Vec3(nil), base...)
	if len(actions) >= 2 {
		actions[0] = dwmath.Normalize3f(actions[0])
		actions[1] = dwmath.Normalize3f(actions[1])
	}

	lo, hi := actionRange(actions, r.useZ)
	precision := float32(r.granularity)
	numActions := precision * dwmath.Abs(lo[0]-hi[0]) *
		precision * dwmath.Abs(lo[1]-hi[1]) *
		precision * dwmath.Abs(lo[2]-hi[2])

	var out []dwmath.Vec3
	for i := 0; i <= int(numActions); i++ {
		a := dwmath.Vec3{
			r.rng.Float32Range(lo[0], hi[0]),
			r.rng.Float32Range(lo[1], hi[1]),
			r.rng.Float32Range(lo[2], hi[2]),
		}
		out = append(out, scaleToSpeed(a, r.maxSpeed))
	}
	return out
}

func actionRange(actions []dwmath.Vec3, useZ bool) (lo, hi dwmath.Vec3) {
	lo, hi = actions[0], actions[0]
	for _, a := range actions[1:] {
		for axis := 0; axis < 3; axis++ {
			if a[axis] < lo[axis] {
				lo[axis] = a[axis]
			}
			if a[axis] > hi[axis] {
				hi[axis] = a[axis]
			}
		}
	}
	if !useZ {
		lo[2], hi[2] = 0, 0
	}
	return lo, hi
}

// estimateFrame predicts next tick's trace channels under action,
// advancing own velocity toward action by a bounded-acceleration model
// and the adversary along its current heading, so that candidate
// actions can be scored against a plausible next-tick signal rather
// than the current one. Accuracy only needs to preserve the relative
// ordering of candidates, not match the real flight dynamics exactly.
func (r *Robustness) estimateFrame(sig *trace.Signal, now int, action dwmath.Vec3) []float32 {
	td := r.tickDuration

	ownPos := dwmath.Vec3{sig.ValueAt("pos_north_m", now), sig.ValueAt("pos_east_m", now), sig.ValueAt("pos_down_m", now)}
	ownVel := dwmath.Vec3{sig.ValueAt("vel_north_m_s", now), sig.ValueAt("vel_east_m_s", now), sig.ValueAt("vel_down_m_s", now)}
	newVel := updateVelocity(ownVel, action, r.ticksToCorrect, td)
	newPos := dwmath.Add3f(ownPos, dwmath.Scale3f(newVel, td*r.ticksToCorrect))

	enemyPos := dwmath.Vec3{sig.ValueAt("enemy_pos_north_m", now), sig.ValueAt("enemy_pos_east_m", now), sig.ValueAt("enemy_pos_down_m", now)}
	enemyVel := dwmath.Vec3{sig.ValueAt("enemy_vel_north_m_s", now), sig.ValueAt("enemy_vel_east_m_s", now), sig.ValueAt("enemy_vel_down_m_s", now)}

	const ticksInOldDir = 2
	newEnemyPos := dwmath.Add3f(enemyPos, dwmath.Scale3f(enemyVel, td*ticksInOldDir))

	delta := dwmath.Sub3f(newPos, newEnemyPos)
	dist := dwmath.Length3f(delta)
	var attemptedEnemyVel dwmath.Vec3
	if dist < 1e-6 {
		attemptedEnemyVel = dwmath.Vec3{0, 0, -r.enemySpeed}
	} else {
		attemptedEnemyVel = dwmath.Scale3f(delta, r.enemySpeed/dist)
	}
	newEnemyVel := updateVelocity(enemyVel, attemptedEnemyVel, r.ticksToCorrect-ticksInOldDir, td)

	return []float32{
		newPos[0], newPos[1], newPos[2],
		newVel[0], newVel[1], newVel[2],
		newEnemyPos[0], newEnemyPos[1], newEnemyPos[2],
		newEnemyVel[0], newEnemyVel[1], newEnemyVel[2],
	}
}

// updateVelocity steps old toward want under a fixed estimated
// acceleration, clamping so the step never overshoots want.
func updateVelocity(old, want dwmath.Vec3, numSteps, tickDuration float32) dwmath.Vec3 {
	const estAccel = 2
	ret := old
	for axis := 0; axis < 3; axis++ {
		dir := float32(1)
		if want[axis] < old[axis] {
			dir = -1
		}
		ret[axis] += dir * estAccel * tickDuration * numSteps
		if dir > 0 {
			ret[axis] = min(ret[axis], want[axis])
		} else {
			ret[axis] = max(ret[axis], want[axis])
		}
	}
	return ret
}

func scaleToSpeed(v dwmath.Vec3, speed float32) dwmath.Vec3 {
	l := dwmath.Length3f(v)
	if l < 1e-6 {
		return dwmath.Vec3{0, 0, -speed}
	}
	return dwmath.Scale3f(v, speed/l)
}
