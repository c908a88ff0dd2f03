// pkg/supervisor/simvehicle_test.go

package supervisor

import (
	"testing"

	dwmath "github.com/mmp/dronewarden/pkg/math"
)

func TestSimVehicleIntegratesCommandedVelocity(t *testing.T) {
	v := NewSimVehicle(dwmath.Vec3{0, 0, 0})
	if err := v.SetVelocityNED(Velocity{NorthMS: 1, EastMS: 0, DownMS: 0}); err != nil {
		t.Fatalf("SetVelocityNED: %v", err)
	}

	f1, _ := v.Read()
	f2, _ := v.Read()

	if f1.PosNorth != 1 {
		t.Errorf("first Read() PosNorth = %v, want 1", f1.PosNorth)
	}
	if f2.PosNorth != 2 {
		t.Errorf("second Read() PosNorth = %v, want 2", f2.PosNorth)
	}
}

func TestSimVehicleHealthAndInAir(t *testing.T) {
	v := NewSimVehicle(dwmath.Vec3{})
	if !v.HealthAllOK() {
		t.Errorf("expected HealthAllOK() true by default")
	}
	if v.InAir() {
		t.Errorf("expected InAir() false before Takeoff")
	}

	if err := v.Takeoff(); err != nil {
		t.Fatalf("Takeoff: %v", err)
	}
	if !v.InAir() {
		t.Errorf("expected InAir() true after Takeoff")
	}

	f, _ := v.Read()
	if f.VelDown >= 0 {
		t.Errorf("VelDown = %v, want < 0 (climbing; NED down is positive toward the ground) after Takeoff", f.VelDown)
	}

	if err := v.Land(); err != nil {
		t.Fatalf("Land: %v", err)
	}
	if v.InAir() {
		t.Errorf("expected InAir() false after Land")
	}
	f, _ = v.Read()
	if f.VelNorth != 0 || f.VelEast != 0 || f.VelDown != 0 {
		t.Errorf("velocity after Land = %+v, want zero", f)
	}
}

func TestSimVehicleArmDisarm(t *testing.T) {
	v := NewSimVehicle(dwmath.Vec3{})
	if err := v.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	if !v.armed {
		t.Errorf("expected armed true after Arm()")
	}
	if err := v.Disarm(); err != nil {
		t.Fatalf("Disarm: %v", err)
	}
	if v.armed {
		t.Errorf("expected armed false after Disarm()")
	}
}

func TestSimVehicleSetVelocityCarriesYaw(t *testing.T) {
	v := NewSimVehicle(dwmath.Vec3{})
	if err := v.SetVelocityNED(Velocity{YawDeg: 180}); err != nil {
		t.Fatalf("SetVelocityNED: %v", err)
	}
	f, _ := v.Read()
	if f.YawDeg != 180 {
		t.Errorf("YawDeg = %v, want 180", f.YawDeg)
	}
}
