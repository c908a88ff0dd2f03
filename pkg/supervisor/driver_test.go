// pkg/supervisor/driver_test.go

package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmp/dronewarden/pkg/config"
	"github.com/mmp/dronewarden/pkg/coordinate"
	"github.com/mmp/dronewarden/pkg/diagnostics"
	"github.com/mmp/dronewarden/pkg/enforce"
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/trace"
)

type fakeTelemetry struct {
	healthy   bool
	inAir     bool
	readErr   error
	armCalls  int
	armErr    error
	takeoffed bool
}

func (f *fakeTelemetry) Read() (Frame, error) {
	return Frame{Healthy: f.healthy}, f.readErr
}
func (f *fakeTelemetry) HealthAllOK() bool { return f.healthy }
func (f *fakeTelemetry) InAir() bool       { return f.inAir }

type fakeSink struct {
	armErr    error
	landed    bool
	velocitys []Velocity
}

func (s *fakeSink) SetVelocityNED(v Velocity) error {
	s.velocitys = append(s.velocitys, v)
	return nil
}
func (s *fakeSink) Arm() error    { return s.armErr }
func (s *fakeSink) Disarm() error { return nil }
func (s *fakeSink) Takeoff() error {
	return nil
}
func (s *fakeSink) Land() error { s.landed = true; return nil }

type fakeAdversary struct{}

func (fakeAdversary) Read() (Frame, error) { return Frame{}, nil }

type fakeMission struct{ v Velocity }

func (m fakeMission) Propose(tick int, own Frame) Velocity { return m.v }

type passthroughCoordinator struct{}

func (passthroughCoordinator) Name() string { return "passthrough" }
func (passthroughCoordinator) Coordinate(sig *trace.Signal, now int, proposed dwmath.Vec3) (dwmath.Vec3, error) {
	return proposed, nil
}
func (passthroughCoordinator) Enforcers() []enforce.Enforcer { return nil }

func TestSetupSucceedsWhenHealthyAndArmable(t *testing.T) {
	tel := &fakeTelemetry{healthy: true, inAir: true}
	sink := &fakeSink{}
	d := NewDriver(config.Default(), nil, passthroughCoordinator{}, fakeMission{}, tel, fakeAdversary{}, sink, diagnostics.NewRecorder(config.Default()), 3)

	if err := d.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
}

func TestSetupFailsWhenArmNeverSucceeds(t *testing.T) {
	tel := &fakeTelemetry{healthy: true, inAir: true}
	sink := &fakeSink{armErr: errors.New("refused")}
	d := NewDriver(config.Default(), nil, passthroughCoordinator{}, fakeMission{}, tel, fakeAdversary{}, sink, diagnostics.NewRecorder(config.Default()), 3)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := d.Setup(ctx)
	if err == nil {
		t.Fatalf("expected Setup to fail when Arm always errors")
	}
}

func TestSetupRespectsContextCancellationWhileWaitingOnHealth(t *testing.T) {
	tel := &fakeTelemetry{healthy: false}
	sink := &fakeSink{}
	d := NewDriver(config.Default(), nil, passthroughCoordinator{}, fakeMission{}, tel, fakeAdversary{}, sink, diagnostics.NewRecorder(config.Default()), 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Setup(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Setup() error = %v, want context.Canceled", err)
	}
}

func TestRunDispatchesCommandedVelocityAndLandsOnShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.TickDuration = 0.001

	tel := &fakeTelemetry{healthy: true, inAir: true}
	sink := &fakeSink{}
	d := NewDriver(cfg, nil, passthroughCoordinator{}, fakeMission{v: Velocity{NorthMS: 1}}, tel, fakeAdversary{}, sink, diagnostics.NewRecorder(cfg), 3)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sink.landed {
		t.Errorf("expected sink.Land to be called on shutdown")
	}
	if len(sink.velocitys) == 0 {
		t.Errorf("expected at least one dispatched velocity before shutdown")
	}
}

func TestRunReturnsErrorWhenTelemetryNeverRecovers(t *testing.T) {
	cfg := config.Default()
	cfg.TickDuration = 0.001

	tel := &fakeTelemetry{healthy: false}
	sink := &fakeSink{}
	d := NewDriver(cfg, nil, passthroughCoordinator{}, fakeMission{}, tel, fakeAdversary{}, sink, diagnostics.NewRecorder(cfg), 2)

	err := d.Run(context.Background())
	if err == nil {
		t.Fatalf("expected Run to return an error when telemetry never becomes healthy")
	}
}
