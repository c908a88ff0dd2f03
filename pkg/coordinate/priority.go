// pkg/coordinate/priority.go

package coordinate

import (
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Priority resolves conflicts between violated enforcers by fixed,
// configured weight: the single highest-weighted active enforcer wins
// outright, the rest are ignored entirely for this tick.
type Priority struct {
	set
}

func NewPriority() *Priority { return &Priority{} }

func (*Priority) Name() string { return "priority" }

func (p *Priority) Coordinate(sig *trace.Signal, now int, proposed dwmath.Vec3) (dwmath.Vec3, error) {
	actives := p.active(sig, now, proposed)
	switch len(actives) {
	case 0:
		return proposed, nil
	case 1:
		return actives[0].first(), nil
	default:
		argmax := actives[0]
		for _, a := range actives[1:] {
			if a.weight > argmax.weight {
				argmax = a
			}
		}
		return argmax.first(), nil
	}
}
