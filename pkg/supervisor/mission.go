// pkg/supervisor/mission.go

package supervisor

import (
	"math"

	dwmath "github.com/mmp/dronewarden/pkg/math"
)

// CruiseProposer always proposes the same velocity, standing in for
// waypoint-following mission logic (original_source/reconmission.cpp)
// that is out of scope here — only the velocity it would have produced
// this tick matters to the core.
type CruiseProposer struct {
	v Velocity
}

func NewCruiseProposer(v Velocity) *CruiseProposer {
	return &CruiseProposer{v: v}
}

func (c *CruiseProposer) Propose(tick int, own Frame) Velocity {
	return c.v
}

// FigureEightProposer traces a closed figure-eight in the horizontal
// plane by walking a parametric Lissajous curve and steering toward the
// next sample point, a trivial stand-in for
// original_source/flyeightmission.cpp's waypoint sequencer.
type FigureEightProposer struct {
	radius float32
	period int
	speed  float32
}

func NewFigureEightProposer(radius, speed float32, periodTicks int) *FigureEightProposer {
	return &FigureEightProposer{radius: radius, period: periodTicks, speed: speed}
}

func (f *FigureEightProposer) Propose(tick int, own Frame) Velocity {
	if f.period <= 0 {
		return Velocity{}
	}
	theta := 2 * dwmath.Pi * float32(tick%f.period) / float32(f.period)
	thetaNext := 2 * dwmath.Pi * float32((tick+1)%f.period) / float32(f.period)

	point := lissajous(theta, f.radius)
	next := lissajous(thetaNext, f.radius)

	dir := dwmath.Normalize3f(dwmath.Sub3f(next, point))
	vel := dwmath.Scale3f(dir, f.speed)
	return Velocity{NorthMS: vel[0], EastMS: vel[1], DownMS: 0, YawDeg: own.YawDeg}
}

func lissajous(theta, radius float32) dwmath.Vec3 {
	north := radius * float32(math.Sin(float64(theta)))
	east := radius * float32(math.Sin(float64(2*theta))) / 2
	return dwmath.Vec3{north, east, 0}
}
