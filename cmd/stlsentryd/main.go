// cmd/stlsentryd/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mmp/dronewarden/pkg/config"
	"github.com/mmp/dronewarden/pkg/coordinate"
	"github.com/mmp/dronewarden/pkg/diagnostics"
	"github.com/mmp/dronewarden/pkg/enforce"
	"github.com/mmp/dronewarden/pkg/log"
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/supervisor"
)

var (
	coordinatorName = flag.String("coordinator", "robustness", "coordination strategy: simple, priority, conjunction, weighted, intersection, robustness")
	missionName     = flag.String("mission", "cruise", "mission proposal generator: cruise, figure8")
	outDir          = flag.String("outdir", ".", "directory for diagnostic dumps")
	configDir       = flag.String("indir", ".", "directory holding drone.cfg")
	logLevel        = flag.String("loglevel", "info", "debug, info, warn, or error")
	watchConfig     = flag.Bool("watch-config", false, "hot-reload drone.cfg on change")
	httpAddr        = flag.String("http", "", "address to serve live diagnostics on, e.g. :8090 (disabled if empty)")
)

func makeEnforcers(cfg config.Config) []struct {
	enforcer enforce.Enforcer
	weight   float32
} {
	return []struct {
		enforcer enforce.Enforcer
		weight   float32
	}{
		{enforce.NewBoundary(cfg), cfg.BoundaryWeight},
		{enforce.NewRunaway(cfg), cfg.RunawayWeight},
		{enforce.NewFlight(cfg), cfg.FlightWeight},
		{enforce.NewRecon(cfg), cfg.ReconWeight},
		{enforce.NewMissile(cfg), cfg.MissileWeight},
	}
}

// makeCoordinator builds the named strategy and registers every
// enforcer into it, mirroring missionapp.cpp's make_coordinator +
// init_coordinator pairing.
func makeCoordinator(name string, cfg config.Config) (coordinate.Coordinator, error) {
	type adder interface {
		Add(e enforce.Enforcer, weight float32)
	}

	var coord coordinate.Coordinator
	var add adder

	switch name {
	case "simple":
		c := coordinate.NewSimple()
		coord, add = c, c
	case "priority":
		c := coordinate.NewPriority()
		coord, add = c, c
	case "conjunction":
		c := coordinate.NewConjunction()
		coord, add = c, c
	case "weighted":
		c := coordinate.NewWeighted()
		coord, add = c, c
	case "intersection":
		c := coordinate.NewIntersection()
		coord, add = c, c
	case "robustness":
		c := coordinate.NewRobustness(coordinate.RobustnessConfig{
			TickDuration:               cfg.TickDuration,
			TicksToCorrect:             cfg.TicksToCorrect,
			EnemyDroneSpeed:            cfg.EnemyDroneSpeed,
			MaxDroneSpeed:              cfg.MaxDroneSpeed,
			UseZVelocity:               cfg.UseZVelocity,
			SynthesizeActions:          cfg.SynthesizeActions,
			ChooseLeastDifferentAction: cfg.ChooseLeastDifferentAction,
			RandomSearchGranularity:    cfg.RandomSearchGranularity,
			Seed:                       cfg.WaypointSeed,
		})
		coord, add = c, c
	default:
		return nil, fmt.Errorf("unknown coordinator %q", name)
	}

	for _, e := range makeEnforcers(cfg) {
		add.Add(e.enforcer, e.weight)
	}
	return coord, nil
}

func makeMission(name string) (supervisor.MissionProposer, error) {
	switch name {
	case "cruise":
		return supervisor.NewCruiseProposer(supervisor.Velocity{NorthMS: 1}), nil
	case "figure8":
		return supervisor.NewFigureEightProposer(5, 1, 300), nil
	default:
		return nil, fmt.Errorf("unknown mission %q", name)
	}
}

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *outDir)

	cfg, err := config.Load(*configDir+"/drone.cfg", lg)
	if err != nil {
		lg.Warnf("could not load %s/drone.cfg, using defaults: %v", *configDir, err)
		cfg = config.Default()
	}
	if err := os.MkdirAll(*outDir, 0o755); err == nil {
		os.WriteFile(*outDir+"/effective.cfg", []byte(cfg.String()), 0o644)
	}

	coord, err := makeCoordinator(*coordinatorName, cfg)
	if err != nil {
		lg.Errorf("%v", err)
		os.Exit(1)
	}

	mission, err := makeMission(*missionName)
	if err != nil {
		lg.Errorf("%v", err)
		os.Exit(1)
	}

	vehicle := supervisor.NewSimVehicle(dwmath.Vec3{0, 0, -2.5})
	adversary := supervisor.NewScriptedAdversary(dwmath.Vec3{3, 3, -2.5}, cfg.EnemyDroneSpeed, 2, func() supervisor.Frame {
		f, _ := vehicle.Read()
		return f
	})

	diag := diagnostics.NewRecorder(cfg)
	driver := supervisor.NewDriver(cfg, lg, coord, mission, vehicle, adversary, vehicle, diag, 50).
		WithOutputDir(*outDir)

	if *httpAddr != "" {
		srv := diagnostics.NewServer(diag)
		driver = driver.WithDiagnosticsServer(srv)
		go func() {
			if err := startHTTP(*httpAddr, srv); err != nil {
				lg.Errorf("diagnostics http server: %v", err)
			}
		}()
	}

	if *watchConfig {
		reloads, stop, err := config.Watch(*configDir+"/drone.cfg", lg)
		if err != nil {
			lg.Warnf("config watch disabled: %v", err)
		} else {
			defer stop()
			go func() {
				for range reloads {
					lg.Info("config reload observed (applied at next process restart)")
				}
			}()
		}
	}

	ctx := context.Background()
	if err := driver.Setup(ctx); err != nil {
		lg.Errorf("setup failed: %v", err)
		os.Exit(1)
	}

	if err := driver.Run(ctx); err != nil {
		lg.Errorf("run failed: %v", err)
		os.Exit(1)
	}
}
