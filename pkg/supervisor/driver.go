// pkg/supervisor/driver.go

package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"github.com/mmp/dronewarden/pkg/config"
	"github.com/mmp/dronewarden/pkg/coordinate"
	"github.com/mmp/dronewarden/pkg/diagnostics"
	"github.com/mmp/dronewarden/pkg/log"
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Driver is the fixed-cadence tick loop: the sole writer of Signal, and
// the only component that reads wall-clock time. Everything inside a
// tick runs on the same goroutine in the strict order
// append -> enforcer evaluation -> coordinator -> dispatch; no step
// blocks on I/O except the end-of-tick sleep.
type Driver struct {
	cfg         config.Config
	lg          *log.Logger
	sig         *trace.Signal
	coordinator coordinate.Coordinator
	mission     MissionProposer
	telemetry   TelemetryProxy
	adversary   AdversaryProxy
	sink        CommandSink
	diag        *diagnostics.Recorder
	diagServer  *diagnostics.Server
	outDir      string

	maxTransientLoss int
}

// WithDiagnosticsServer attaches a live diagnostics server; Publish is
// called once per tick, after RecordTick, if set.
func (d *Driver) WithDiagnosticsServer(s *diagnostics.Server) *Driver {
	d.diagServer = s
	return d
}

// WithOutputDir sets where Run writes the end-of-run diagnostic dump.
func (d *Driver) WithOutputDir(dir string) *Driver {
	d.outDir = dir
	return d
}

// NewDriver wires the components a single run needs. maxTransientLoss is
// the count of consecutive unhealthy telemetry reads at which the tick
// loop stops and the driver lands and exits (so maxTransientLoss-1 are
// tolerated), per spec.md's telemetry transient-error policy.
func NewDriver(cfg config.Config, lg *log.Logger, coord coordinate.Coordinator, mission MissionProposer,
	telemetry TelemetryProxy, adversary AdversaryProxy, sink CommandSink, diag *diagnostics.Recorder, maxTransientLoss int) *Driver {
	return &Driver{
		cfg:              cfg,
		lg:               lg,
		sig:              trace.NewDefault(),
		coordinator:      coord,
		mission:          mission,
		telemetry:        telemetry,
		adversary:        adversary,
		sink:             sink,
		diag:             diag,
		maxTransientLoss: maxTransientLoss,
	}
}

// Setup brings the vehicle from disarmed to airborne, retrying health
// and arm checks up to 10 times, 1s apart, before giving up. It mirrors
// original_source/mission.cpp's Mission::setup, generalized to the
// CommandSink/TelemetryProxy interfaces.
func (d *Driver) Setup(ctx context.Context) error {
	const maxAttempts = 10
	const retryDelay = time.Second

	for i := 0; !d.telemetry.HealthAllOK(); i++ {
		if i >= maxAttempts {
			return fmt.Errorf("supervisor: telemetry never became healthy after %d attempts", maxAttempts)
		}
		d.lg.Warnf("waiting for telemetry health (attempt %d/%d)", i+1, maxAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	armed := false
	for i := 0; i < maxAttempts; i++ {
		if err := d.sink.Arm(); err == nil {
			armed = true
			break
		}
		d.lg.Warnf("arm attempt %d/%d failed", i+1, maxAttempts)
		_ = d.sink.Disarm()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	if !armed {
		return fmt.Errorf("supervisor: failed to arm after %d attempts", maxAttempts)
	}

	if err := d.sink.Takeoff(); err != nil {
		return fmt.Errorf("supervisor: takeoff failed: %w", err)
	}
	for !d.telemetry.InAir() {
		if err := d.sink.SetVelocityNED(Velocity{}); err != nil {
			return fmt.Errorf("supervisor: hold-velocity during takeoff failed: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// Run executes the tick loop until ctx is cancelled (by SIGINT/SIGTERM
// or by the caller), then lands, writes diagnostics, and returns.
func (d *Driver) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egctx := errgroup.WithContext(ctx)

	shutdown := make(chan struct{})
	eg.Go(func() error {
		<-egctx.Done()
		close(shutdown)
		return nil
	})

	var runErr error
	eg.Go(func() error {
		runErr = d.runLoop(shutdown)
		return runErr
	})

	_ = eg.Wait()

	d.lg.Info("landing and writing diagnostics")
	if err := d.sink.Land(); err != nil {
		d.lg.Errorf("land failed: %v", err)
	}
	if d.outDir != "" {
		if err := d.diag.Dump(d.outDir); err != nil {
			d.lg.Errorf("diagnostics dump failed: %v", err)
		}
	}
	return runErr
}

func (d *Driver) runLoop(shutdown <-chan struct{}) error {
	tickDur := time.Duration(d.cfg.TickDuration * float32(time.Second))
	transientLoss := 0
	tick := 0

	for {
		select {
		case <-shutdown:
			d.lg.Info("shutdown signal received, current tick already complete")
			return nil
		default:
		}

		start := time.Now()

		ownFrame, err := d.telemetry.Read()
		if err != nil || !ownFrame.Healthy {
			transientLoss++
			d.lg.Warnf("telemetry read unhealthy (%d/%d consecutive)", transientLoss, d.maxTransientLoss)
			if transientLoss >= d.maxTransientLoss {
				return fmt.Errorf("supervisor: telemetry lost for %d consecutive ticks", transientLoss)
			}
		} else {
			transientLoss = 0
		}

		advFrame, err := d.adversary.Read()
		if err != nil {
			d.lg.Warnf("adversary read failed: %v", err)
		}

		d.sig.Append([]float32{
			ownFrame.PosNorth, ownFrame.PosEast, ownFrame.PosDown,
			ownFrame.VelNorth, ownFrame.VelEast, ownFrame.VelDown,
			advFrame.PosNorth, advFrame.PosEast, advFrame.PosDown,
			advFrame.VelNorth, advFrame.VelEast, advFrame.VelDown,
		})
		now := d.sig.Now()

		proposed := d.mission.Propose(tick, ownFrame)
		proposedVec := dwmath.Vec3{proposed.NorthMS, proposed.EastMS, proposed.DownMS}

		commanded, err := d.coordinator.Coordinate(d.sig, now, proposedVec)
		if err != nil {
			return fmt.Errorf("supervisor: coordinator could not resolve a command: %w", err)
		}

		out := Velocity{NorthMS: commanded[0], EastMS: commanded[1], DownMS: commanded[2], YawDeg: proposed.YawDeg}
		if err := d.sink.SetVelocityNED(out); err != nil {
			d.lg.Errorf("dispatch failed: %v", err)
		}

		d.diag.RecordTick(tick, d.coordinator, d.sig, now)
		if d.diagServer != nil {
			d.diagServer.Publish(tick)
		}

		elapsed := time.Since(start)
		if elapsed > tickDur {
			d.lg.Warnf("tick %d overran budget: %v > %v", tick, elapsed, tickDur)
		}

		remaining := tickDur - elapsed
		if remaining < 0 {
			remaining = 0
		}
		timerDone := make(chan struct{}, 1)
		timer := time.AfterFunc(remaining, func() { timerDone <- struct{}{} })

		// channerics fans the sleep timer and the shutdown signal into
		// a single channel, so the wait for "end of tick" is one select
		// case instead of a growing ad hoc list.
		woken := channerics.Merge(shutdown, timerDone)
		<-woken
		timer.Stop()

		select {
		case <-shutdown:
			d.lg.Info("shutdown signal received, tick already dispatched")
			return nil
		default:
		}
		tick++
	}
}
