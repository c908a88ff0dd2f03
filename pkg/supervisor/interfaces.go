// pkg/supervisor/interfaces.go

package supervisor

// Frame is a snapshot of one vehicle's NED position, velocity, and yaw
// attitude, plus the liveness/reference state the driver needs to judge
// whether a telemetry read is usable this tick.
type Frame struct {
	PosNorth, PosEast, PosDown float32
	VelNorth, VelEast, VelDown float32
	YawDeg                     float32
	Healthy                    bool
	HomeLatDeg, HomeLonDeg     float64
}

// Velocity is the 4-tuple the command sink accepts: translational
// velocity plus a yaw setpoint, all in the NED frame.
type Velocity struct {
	NorthMS, EastMS, DownMS float32
	YawDeg                  float32
}

// TelemetryProxy is the own-drone telemetry source. Read must return a
// snapshot of the latest frame; it never blocks waiting on new data — a
// stale-but-present reading is preferred to a blocked tick.
type TelemetryProxy interface {
	Read() (Frame, error)
	HealthAllOK() bool
	InAir() bool
}

// AdversaryProxy has the same shape as TelemetryProxy for the
// adversary's position/velocity. Home-position-relative conversion, if
// the implementation needs it, is handled inside Read.
type AdversaryProxy interface {
	Read() (Frame, error)
}

// CommandSink is the flight-controller velocity-setpoint output.
type CommandSink interface {
	SetVelocityNED(v Velocity) error
	Arm() error
	Disarm() error
	Takeoff() error
	Land() error
}

// MissionProposer computes the mission-level proposed velocity each
// tick, before any enforcer or coordinator has had a chance to veto or
// redirect it. Implementations are pure functions of tick index and the
// current own-drone frame; they hold no reference to Signal.
type MissionProposer interface {
	Propose(tick int, own Frame) Velocity
}
