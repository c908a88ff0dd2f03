// pkg/supervisor/simvehicle.go

package supervisor

import dwmath "github.com/mmp/dronewarden/pkg/math"

// SimVehicle is a bare kinematic stand-in for the dronecode_sdk
// telemetry/offboard/action surface original_source/mission.cpp talks
// to: it integrates whatever velocity SetVelocityNED last commanded,
// with no physical dynamics beyond that, so `cmd/stlsentryd` has
// something to drive end to end without real flight hardware attached.
type SimVehicle struct {
	pos     dwmath.Vec3
	vel     dwmath.Vec3
	yawDeg  float32
	armed   bool
	inAir   bool
	healthy bool
}

func NewSimVehicle(start dwmath.Vec3) *SimVehicle {
	return &SimVehicle{pos: start, healthy: true}
}

func (v *SimVehicle) Read() (Frame, error) {
	v.pos = dwmath.Add3f(v.pos, v.vel)
	return Frame{
		PosNorth: v.pos[0], PosEast: v.pos[1], PosDown: v.pos[2],
		VelNorth: v.vel[0], VelEast: v.vel[1], VelDown: v.vel[2],
		YawDeg:  v.yawDeg,
		Healthy: v.healthy,
	}, nil
}

func (v *SimVehicle) HealthAllOK() bool { return v.healthy }
func (v *SimVehicle) InAir() bool       { return v.inAir }

func (v *SimVehicle) SetVelocityNED(cmd Velocity) error {
	v.vel = dwmath.Vec3{cmd.NorthMS, cmd.EastMS, cmd.DownMS}
	v.yawDeg = cmd.YawDeg
	return nil
}

func (v *SimVehicle) Arm() error    { v.armed = true; return nil }
func (v *SimVehicle) Disarm() error { v.armed = false; return nil }

func (v *SimVehicle) Takeoff() error {
	v.inAir = true
	v.vel = dwmath.Vec3{0, 0, -0.5}
	return nil
}

func (v *SimVehicle) Land() error {
	v.vel = dwmath.Vec3{}
	v.inAir = false
	return nil
}
