// pkg/coordinate/conjunction.go

package coordinate

import (
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Conjunction picks the action proposed by whichever active enforcer
// currently has the LEAST robustness (the worst-violated property).
//
// This is a known-wrong strategy for its stated goal: the action most
// robustly satisfying the conjunction of all active properties isn't
// generally the action proposed by the single most-violated one, since
// fixing the worst property can still leave the others worse off than
// some other candidate would. Preserved as-is rather than "fixed" — it's
// a deliberately named, selectable strategy precisely because callers
// may want to compare against it.
type Conjunction struct {
	set
}

func NewConjunction() *Conjunction { return &Conjunction{} }

func (*Conjunction) Name() string { return "conjunction" }

func (c *Conjunction) Coordinate(sig *trace.Signal, now int, proposed dwmath.Vec3) (dwmath.Vec3, error) {
	actives := c.active(sig, now, proposed)
	switch len(actives) {
	case 0:
		return proposed, nil
	case 1:
		return actives[0].first(), nil
	default:
		argmin := actives[0]
		for _, a := range actives[1:] {
			if a.robustness < argmin.robustness {
				argmin = a
			}
		}
		return argmin.first(), nil
	}
}
