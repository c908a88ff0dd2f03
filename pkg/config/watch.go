// pkg/config/watch.go

package config

import (
	"github.com/brunoga/deep"
	"github.com/fsnotify/fsnotify"

	"github.com/mmp/dronewarden/pkg/log"
)

// Watch reloads the configuration file whenever it changes on disk and
// delivers the newly parsed Config on the returned channel, keeping only
// the latest pending value. The tick driver does not install it: the
// running enforcers and coordinator keep the settings they were built
// with.
func Watch(path string, lg *log.Logger) (<-chan Config, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, nil, err
	}

	out := make(chan Config, 1)
	done := make(chan struct{})
	prev := Default()
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				c, err := Load(path, lg)
				if err != nil {
					lg.Warnf("config reload of %s failed: %v", path, err)
					continue
				}
				// Deep-copy the outgoing record before diffing: prev
				// must not alias the fields of the Config about to
				// replace it, or logChanges would compare c against
				// itself once the caller installs it.
				snapshot := deep.MustCopy(prev)
				logChanges(lg, snapshot, c)
				prev = c

				select {
				case out <- c:
				default:
					// Drop the stale pending reload in favor of this one.
					select {
					case <-out:
					default:
					}
					out <- c
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				lg.Warnf("config watch error: %v", err)
			case <-done:
				return
			}
		}
	}()

	stop := func() {
		close(done)
		w.Close()
	}
	return out, stop, nil
}

// logChanges reports which top-level numeric/boolean fields differ
// between old and updated, by name, so a reload's effect is visible in
// the log without dumping the entire record.
func logChanges(lg *log.Logger, old, updated Config) {
	changed := map[string]bool{
		"MAX_DRONE_SPEED":               old.MaxDroneSpeed != updated.MaxDroneSpeed,
		"ENEMY_CHASE_DISTANCE":          old.EnemyChaseDist != updated.EnemyChaseDist,
		"ENEMY_DRONE_SPEED":             old.EnemyDroneSpeed != updated.EnemyDroneSpeed,
		"TICK_DURATION":                 old.TickDuration != updated.TickDuration,
		"TICKS_TO_CORRECT":              old.TicksToCorrect != updated.TicksToCorrect,
		"USE_Z_VELOCITY":                old.UseZVelocity != updated.UseZVelocity,
		"CATCH_DISTANCE":                old.CatchDistance != updated.CatchDistance,
		"RECON_HEIGHT":                  old.ReconHeight != updated.ReconHeight,
		"BOUNDARY_WEIGHT":               old.BoundaryWeight != updated.BoundaryWeight,
		"RUNAWAY_WEIGHT":                old.RunawayWeight != updated.RunawayWeight,
		"FLIGHT_WEIGHT":                 old.FlightWeight != updated.FlightWeight,
		"RECON_WEIGHT":                  old.ReconWeight != updated.ReconWeight,
		"MISSILE_WEIGHT":                old.MissileWeight != updated.MissileWeight,
		"NONLINEAR_PENALTY":             old.NonlinearPenalty != updated.NonlinearPenalty,
		"SYNTHESIZE_ACTIONS":            old.SynthesizeActions != updated.SynthesizeActions,
		"CHOOSE_LEAST_DIFFERENT_ACTION": old.ChooseLeastDifferentAction != updated.ChooseLeastDifferentAction,
		"SUGGEST_ACTION_RANGE":          old.SuggestActionRange != updated.SuggestActionRange,
		"RANDOM_SEARCH_GRANULARITY":     old.RandomSearchGranularity != updated.RandomSearchGranularity,
		"WAYPOINT_SEED":                 old.WaypointSeed != updated.WaypointSeed,
		"BOUNDARY_X_MIN":                old.BoundaryXMin != updated.BoundaryXMin,
		"BOUNDARY_X_MAX":                old.BoundaryXMax != updated.BoundaryXMax,
		"BOUNDARY_Y_MIN":                old.BoundaryYMin != updated.BoundaryYMin,
		"BOUNDARY_Y_MAX":                old.BoundaryYMax != updated.BoundaryYMax,
		"BOUNDARY_Z_MIN":                old.BoundaryZMin != updated.BoundaryZMin,
		"BOUNDARY_Z_MAX":                old.BoundaryZMax != updated.BoundaryZMax,
		"BOUNDARY_SAFE_TTI_THRESHOLD":   old.BoundarySafeTTIThreshold != updated.BoundarySafeTTIThreshold,
	}
	for key, isChanged := range changed {
		if isChanged {
			lg.Infof("config reload: %s changed", key)
		}
	}
}
