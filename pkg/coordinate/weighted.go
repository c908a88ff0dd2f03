// pkg/coordinate/weighted.go

package coordinate

import (
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Weighted blends every active enforcer's first candidate, renormalizing
// configured weights over only the enforcers that actually activated
// this tick (an inactive enforcer's weight is freed up and redistributed
// rather than wasted).
type Weighted struct {
	set
}

func NewWeighted() *Weighted { return &Weighted{} }

func (*Weighted) Name() string { return "weighted" }

func (w *Weighted) Coordinate(sig *trace.Signal, now int, proposed dwmath.Vec3) (dwmath.Vec3, error) {
	actives := w.active(sig, now, proposed)
	if len(actives) == 0 {
		return proposed, nil
	}
	if len(actives) < 2 {
		return actives[0].first(), nil
	}

	var unusedWeight float32
	activeSet := make(map[interface{}]bool, len(actives))
	for _, a := range actives {
		activeSet[a.enforcer] = true
	}
	for _, en := range w.entries {
		if !activeSet[en.enforcer] {
			unusedWeight += en.weight
		}
	}

	var merged dwmath.Vec3
	for i, a := range actives {
		weight := a.weight / (1 - unusedWeight)
		action := dwmath.Scale3f(a.first(), weight)
		if i == 0 {
			merged = action
		} else {
			merged = dwmath.Add3f(merged, action)
		}
	}
	// Yaw is never blended here: the supervisor always re-attaches
	// proposed's yaw to whatever translational command a coordinator
	// returns, unlike the weighted average the source also applies to
	// yaw_deg.
	return merged, nil
}
