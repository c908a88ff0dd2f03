// pkg/coordinate/intersect.go

package coordinate

import (
	"fmt"

	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Intersection looks for a candidate velocity that every active
// enforcer would independently accept: a candidate is kept only if it
// appears (within intersectionEpsilon) in the candidate set of each
// active enforcer, so one shared by enforcers 0 and 2 but not by 1 is
// not a member.
type Intersection struct {
	set
}

func NewIntersection() *Intersection { return &Intersection{} }

func (*Intersection) Name() string { return "intersection" }

func (in *Intersection) Coordinate(sig *trace.Signal, now int, proposed dwmath.Vec3) (dwmath.Vec3, error) {
	actives := in.active(sig, now, proposed)
	switch len(actives) {
	case 0:
		return proposed, nil
	case 1:
		return actives[0].first(), nil
	}

	// A candidate is a member of the intersection only if every pair of
	// active enforcers agrees on it, so start from the first enforcer's
	// candidates and whittle down against every other enforcer in turn.
	shared := actives[0].candidates
	for _, a := range actives[1:] {
		var next []dwmath.Vec3
		for _, c := range shared {
			for _, c2 := range a.candidates {
				if vecClose(c, c2, intersectionEpsilon) {
					next = append(next, c)
					break
				}
			}
		}
		shared = next
		if len(shared) == 0 {
			break
		}
	}

	if len(shared) == 0 {
		return dwmath.Vec3{}, fmt.Errorf("coordinate: no action satisfies the intersection of %d active enforcers", len(actives))
	}
	return shared[0], nil
}
