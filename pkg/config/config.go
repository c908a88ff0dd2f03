// pkg/config/config.go

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mmp/dronewarden/pkg/log"
)

// Config is the supervisor's entire tunable surface, threaded explicitly
// through the driver, enforcers, and coordinator as an immutable record
// rather than read piecemeal from package-level globals: synthesis reads
// TickDuration and TicksToCorrect, enforcers read the boundary box, and a
// stale snapshot of any of these produces subtly wrong answers.
type Config struct {
	MaxDroneSpeed     float32
	EnemyChaseDist    float32
	EnemyDroneSpeed   float32
	TickDuration      float32
	TicksToCorrect    float32
	UseZVelocity      bool
	CatchDistance     float32
	ReconHeight       float32

	BoundaryWeight float32
	RunawayWeight  float32
	FlightWeight   float32
	ReconWeight    float32
	MissileWeight  float32

	NonlinearPenalty           bool
	SynthesizeActions          bool
	ChooseLeastDifferentAction bool
	SuggestActionRange         bool
	RandomSearchGranularity    uint

	WaypointSeed uint64

	BoundaryXMin, BoundaryXMax float32
	BoundaryYMin, BoundaryYMax float32
	BoundaryZMin, BoundaryZMax float32
	BoundarySafeTTIThreshold   float32
}

// Default returns the supervisor's built-in defaults, matching the
// original mission software's compiled-in constants.
func Default() Config {
	return Config{
		MaxDroneSpeed:   2.00,
		EnemyChaseDist:  4.00,
		EnemyDroneSpeed: 1.6,
		TickDuration:    0.06,
		TicksToCorrect:  5,
		UseZVelocity:    true,
		CatchDistance:   0.1,
		ReconHeight:     1.2,

		BoundaryWeight: 2,
		RunawayWeight:  3,
		FlightWeight:   10,
		ReconWeight:    1,
		MissileWeight:  3,

		NonlinearPenalty:           true,
		SynthesizeActions:          true,
		ChooseLeastDifferentAction: true,
		SuggestActionRange:         true,
		RandomSearchGranularity:    10,

		WaypointSeed: 0,

		BoundaryXMin: -10, BoundaryXMax: 10,
		BoundaryYMin: -10, BoundaryYMax: 10,
		BoundaryZMin: 0, BoundaryZMax: 6,
		BoundarySafeTTIThreshold: 1.5,
	}
}

// Load reads a plain NAME VALUE configuration file on top of Default(),
// logging and skipping unknown keys or unparseable values rather than
// failing the load — a malformed config file degrades to defaults for
// the keys it couldn't apply, it never aborts the process.
func Load(path string, lg *log.Logger) (Config, error) {
	c := Default()

	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			lg.Warnf("config %s:%d: expected \"NAME VALUE\", got %q", path, lineNo, line)
			continue
		}
		name, raw := fields[0], fields[1]
		value, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			lg.Warnf("config %s:%d: unparseable value for %s: %q", path, lineNo, name, raw)
			continue
		}
		if !c.setVar(name, float32(value)) {
			lg.Warnf("config %s:%d: unrecognized key %q", path, lineNo, name)
		}
	}
	return c, sc.Err()
}

// setVar applies a single NAME/VALUE pair to the config, returning false
// for unrecognized keys. BOUNDARY_SIZE is a shorthand recognized here
// for all six boundary bounds, carried over from the original mission
// software's config reader — note that it sets BoundaryZMin to -value,
// not 0, matching that behavior exactly even though a flat-floor zone
// would more naturally pin the low end at zero.
func (c *Config) setVar(name string, value float32) bool {
	switch name {
	case "MAX_DRONE_SPEED":
		c.MaxDroneSpeed = value
	case "ENEMY_CHASE_DISTANCE":
		c.EnemyChaseDist = value
	case "ENEMY_DRONE_SPEED":
		c.EnemyDroneSpeed = value
	case "TICK_DURATION":
		c.TickDuration = value
	case "TICKS_TO_CORRECT":
		c.TicksToCorrect = value
	case "USE_Z_VELOCITY":
		c.UseZVelocity = value != 0
	case "CATCH_DISTANCE":
		c.CatchDistance = value
	case "RECON_HEIGHT":
		c.ReconHeight = value
	case "BOUNDARY_WEIGHT":
		c.BoundaryWeight = value
	case "RUNAWAY_WEIGHT":
		c.RunawayWeight = value
	case "FLIGHT_WEIGHT":
		c.FlightWeight = value
	case "RECON_WEIGHT":
		c.ReconWeight = value
	case "MISSILE_WEIGHT":
		c.MissileWeight = value
	case "NONLINEAR_PENALTY":
		c.NonlinearPenalty = value != 0
	case "SYNTHESIZE_ACTIONS":
		c.SynthesizeActions = value != 0
	case "CHOOSE_LEAST_DIFFERENT_ACTION":
		c.ChooseLeastDifferentAction = value != 0
	case "SUGGEST_ACTION_RANGE":
		c.SuggestActionRange = value != 0
	case "RANDOM_SEARCH_GRANULARITY":
		c.RandomSearchGranularity = uint(value)
	case "WAYPOINT_SEED":
		c.WaypointSeed = uint64(value)
	case "BOUNDARY_X_MIN":
		c.BoundaryXMin = value
	case "BOUNDARY_X_MAX":
		c.BoundaryXMax = value
	case "BOUNDARY_Y_MIN":
		c.BoundaryYMin = value
	case "BOUNDARY_Y_MAX":
		c.BoundaryYMax = value
	case "BOUNDARY_Z_MIN":
		c.BoundaryZMin = value
	case "BOUNDARY_Z_MAX":
		c.BoundaryZMax = value
	case "BOUNDARY_SIZE":
		c.BoundaryXMin, c.BoundaryXMax = -value, value
		c.BoundaryYMin, c.BoundaryYMax = -value, value
		c.BoundaryZMin, c.BoundaryZMax = -value, value
	case "BOUNDARY_SAFE_TTI_THRESHOLD":
		c.BoundarySafeTTIThreshold = value
	default:
		return false
	}
	return true
}

// String renders a subset of the config in the NAME VALUE form it was
// read in, for inclusion in diagnostic dumps: MAX_DRONE_SPEED,
// ENEMY_CHASE_DISTANCE, ENEMY_DRONE_SPEED, TICK_DURATION,
// TICKS_TO_CORRECT and BOUNDARY_SAFE_TTI_THRESHOLD. The other keys are
// not written.
func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MAX_DRONE_SPEED %g\n", c.MaxDroneSpeed)
	fmt.Fprintf(&b, "ENEMY_CHASE_DISTANCE %g\n", c.EnemyChaseDist)
	fmt.Fprintf(&b, "ENEMY_DRONE_SPEED %g\n", c.EnemyDroneSpeed)
	fmt.Fprintf(&b, "TICK_DURATION %g\n", c.TickDuration)
	fmt.Fprintf(&b, "TICKS_TO_CORRECT %g\n", c.TicksToCorrect)
	fmt.Fprintf(&b, "BOUNDARY_SAFE_TTI_THRESHOLD %g\n", c.BoundarySafeTTIThreshold)
	return b.String()
}
