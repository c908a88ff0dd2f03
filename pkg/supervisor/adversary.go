// pkg/supervisor/adversary.go

package supervisor

import dwmath "github.com/mmp/dronewarden/pkg/math"

// ScriptedAdversary stands in for the real pursuit behavior of
// original_source/EnemyDrone.cpp: it advances a simulated adversary at a
// fixed speed toward the own-drone's last-known position, recomputing
// heading once per retarget ticks rather than every tick, so its path
// isn't perfectly reactive. Read always returns Healthy true; the
// adversary proxy has no arm/health concept of its own.
type ScriptedAdversary struct {
	pos      dwmath.Vec3
	heading  dwmath.Vec3
	speed    float32
	retarget int
	tick     int

	ownRef func() Frame
}

// NewScriptedAdversary builds an adversary starting at pos, chasing
// ownRef() at speed, recomputing its heading every retarget ticks.
func NewScriptedAdversary(pos dwmath.Vec3, speed float32, retarget int, ownRef func() Frame) *ScriptedAdversary {
	if retarget < 1 {
		retarget = 1
	}
	return &ScriptedAdversary{pos: pos, speed: speed, retarget: retarget, ownRef: ownRef}
}

func (a *ScriptedAdversary) Read() (Frame, error) {
	if a.tick%a.retarget == 0 {
		own := a.ownRef()
		target := dwmath.Vec3{own.PosNorth, own.PosEast, own.PosDown}
		a.heading = dwmath.Normalize3f(dwmath.Sub3f(target, a.pos))
		if a.heading == (dwmath.Vec3{}) {
			a.heading = dwmath.Vec3{0, 0, -1}
		}
	}
	a.tick++

	vel := dwmath.Scale3f(a.heading, a.speed)
	a.pos = dwmath.Add3f(a.pos, vel)

	return Frame{
		PosNorth: a.pos[0], PosEast: a.pos[1], PosDown: a.pos[2],
		VelNorth: vel[0], VelEast: vel[1], VelDown: vel[2],
		Healthy: true,
	}, nil
}

// ConstantAdversary holds a fixed velocity forever, for scenarios that
// need a non-pursuing adversary (e.g. the boundary-only test setups).
type ConstantAdversary struct {
	pos dwmath.Vec3
	vel dwmath.Vec3
}

func NewConstantAdversary(pos, vel dwmath.Vec3) *ConstantAdversary {
	return &ConstantAdversary{pos: pos, vel: vel}
}

func (a *ConstantAdversary) Read() (Frame, error) {
	a.pos = dwmath.Add3f(a.pos, a.vel)
	return Frame{
		PosNorth: a.pos[0], PosEast: a.pos[1], PosDown: a.pos[2],
		VelNorth: a.vel[0], VelEast: a.vel[1], VelDown: a.vel[2],
		Healthy: true,
	}, nil
}
