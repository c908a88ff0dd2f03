// pkg/diagnostics/diagnostics.go

package diagnostics

import (
	"strconv"

	"github.com/mmp/dronewarden/pkg/config"
	"github.com/mmp/dronewarden/pkg/coordinate"
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/trace"
)

// EventPoint is a single tick of interest, mirroring the three event
// categories original_source/StateStore.h writes at the end of a run:
// catches, coordinator-multi-active ticks, and boundary excursions.
type EventPoint struct {
	Tick   int
	Kind   string
	Detail string
}

const (
	EventCatch         = "catch"
	EventMultiActive   = "multi_active"
	EventBoundaryDepth = "boundary_excursion"
)

// Series holds one property's per-tick robustness value and its
// cumulative violation bookkeeping.
type Series struct {
	Name           string
	Robustness     []float32
	ViolationTicks int
	ViolationRuns  int
	inViolation    bool
}

// Recorder accumulates the three diagnostic categories spec.md §6
// requires be emitted at termination, one RecordTick call per control
// tick. It holds no reference to the driver; it only reads the signal
// and coordinator it's handed.
type Recorder struct {
	cfg    config.Config
	series map[string]*Series
	order  []string
	events []EventPoint

	maxBoundaryDepth float32
	lastTick         int
}

func NewRecorder(cfg config.Config) *Recorder {
	return &Recorder{cfg: cfg, series: make(map[string]*Series)}
}

// RecordTick scores every enforcer's property at tick now, updates its
// series and violation bookkeeping, and checks for catch and
// multi-active events. coord.Enforcers() is assumed stable across the
// run (the set registered at startup never changes tick to tick).
func (r *Recorder) RecordTick(tick int, coord coordinate.Coordinator, sig *trace.Signal, now int) {
	r.lastTick = tick
	active := 0

	for _, en := range coord.Enforcers() {
		name := en.Name()
		s, ok := r.series[name]
		if !ok {
			s = &Series{Name: name}
			r.series[name] = s
			r.order = append(r.order, name)
		}

		rob := en.Property().Robustness(sig, now)
		s.Robustness = append(s.Robustness, rob)

		if rob < 0 {
			active++
			s.ViolationTicks++
			if !s.inViolation {
				s.ViolationRuns++
				s.inViolation = true
			}
		} else {
			s.inViolation = false
		}
	}

	if active >= 2 {
		r.events = append(r.events, EventPoint{Tick: tick, Kind: EventMultiActive, Detail: strconv.Itoa(active)})
	}

	own := dwmath.Vec3{sig.ValueAt("pos_north_m", now), sig.ValueAt("pos_east_m", now), sig.ValueAt("pos_down_m", now)}
	enemy := dwmath.Vec3{sig.ValueAt("enemy_pos_north_m", now), sig.ValueAt("enemy_pos_east_m", now), sig.ValueAt("enemy_pos_down_m", now)}
	if dwmath.Distance3f(own, enemy) <= r.cfg.CatchDistance {
		r.events = append(r.events, EventPoint{Tick: tick, Kind: EventCatch})
	}

	box := dwmath.Extent3D{
		Lo: dwmath.Vec3{r.cfg.BoundaryXMin, r.cfg.BoundaryYMin, r.cfg.BoundaryZMin},
		Hi: dwmath.Vec3{r.cfg.BoundaryXMax, r.cfg.BoundaryYMax, r.cfg.BoundaryZMax},
	}
	altitude := -own[2]
	probe := dwmath.Vec3{own[0], own[1], altitude}
	if !box.Inside(probe) {
		closest := box.ClosestPointInBox(probe)
		depth := dwmath.Distance3f(probe, closest)
		if depth > r.maxBoundaryDepth {
			r.maxBoundaryDepth = depth
		}
		r.events = append(r.events, EventPoint{Tick: tick, Kind: EventBoundaryDepth, Detail: strconv.FormatFloat(float64(depth), 'f', 3, 32)})
	}
}

// Summary is the read-only snapshot Dump and the HTTP/websocket server
// both serialize.
type Summary struct {
	Ticks            int
	Series           []Series
	Events           []EventPoint
	MaxBoundaryDepth float32
}

func (r *Recorder) Summary() Summary {
	out := Summary{Ticks: r.lastTick + 1, Events: r.events, MaxBoundaryDepth: r.maxBoundaryDepth}
	for _, name := range r.order {
		out.Series = append(out.Series, *r.series[name])
	}
	return out
}
