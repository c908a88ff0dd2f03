// pkg/coordinate/coordinate.go

package coordinate

import (
	"github.com/mmp/dronewarden/pkg/enforce"
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Coordinator turns a proposed velocity and the current trace into the
// velocity actually sent to the flight controller, resolving whatever
// enforcers have activated this tick. Only the translational components
// are ever touched — yaw always passes through from proposed unchanged.
type Coordinator interface {
	Name() string
	Coordinate(sig *trace.Signal, now int, proposed dwmath.Vec3) (dwmath.Vec3, error)
	Enforcers() []enforce.Enforcer
}

// entry pairs an enforcer with the weight a weight-aware strategy gives
// it; strategies that ignore weight (Simple, Conjunction, Intersection)
// still carry one so all six can be built and registered uniformly.
type entry struct {
	enforcer enforce.Enforcer
	weight   float32
}

// set is embedded by every concrete strategy; Add registers an enforcer
// in the order enforcers are consulted.
type set struct {
	entries []entry
}

func (s *set) Add(e enforce.Enforcer, weight float32) {
	s.entries = append(s.entries, entry{enforcer: e, weight: weight})
}

func (s *set) Enforcers() []enforce.Enforcer {
	es := make([]enforce.Enforcer, len(s.entries))
	for i, en := range s.entries {
		es[i] = en.enforcer
	}
	return es
}

// activation is what a strategy needs to know about one enforcer's
// response to the current tick: whether it's violated, and every
// candidate it proposed (Simple, Priority, Conjunction and Weighted use
// only the first; Robustness and Intersection consider all of them).
type activation struct {
	enforcer   enforce.Enforcer
	weight     float32
	robustness float32
	candidates []dwmath.Vec3
}

func (a activation) first() dwmath.Vec3 { return a.candidates[0] }

// active runs every registered enforcer's Enforce once and returns only
// those that report a violation, preserving registration order.
func (s *set) active(sig *trace.Signal, now int, proposed dwmath.Vec3) []activation {
	var out []activation
	for _, en := range s.entries {
		candidates, violated := en.enforcer.Enforce(sig, now, proposed)
		if !violated {
			continue
		}
		out = append(out, activation{
			enforcer:   en.enforcer,
			weight:     en.weight,
			robustness: en.enforcer.Property().Robustness(sig, now),
			candidates: candidates,
		})
	}
	return out
}

func cosineSimilarity(a, b dwmath.Vec3) float32 {
	la, lb := dwmath.Length3f(a), dwmath.Length3f(b)
	if la < 1e-6 || lb < 1e-6 {
		return 0
	}
	return dwmath.Dot3f(a, b) / (la * lb)
}

// leastDifferent returns the candidate most similar in direction to
// original, by cosine similarity — used whenever a strategy must settle
// on one of several equally-valid candidates without otherwise
// preferring one.
func leastDifferent(original dwmath.Vec3, candidates []dwmath.Vec3) dwmath.Vec3 {
	best := candidates[0]
	bestSim := cosineSimilarity(original, best)
	for _, c := range candidates[1:] {
		if sim := cosineSimilarity(original, c); sim > bestSim {
			bestSim = sim
			best = c
		}
	}
	return best
}

// vecClose reports whether a and b agree on every axis within eps,
// the same termwise comparison the intersection strategy uses to decide
// two enforcers' candidate sets overlap.
func vecClose(a, b dwmath.Vec3, eps float32) bool {
	for i := 0; i < 3; i++ {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > eps {
			return false
		}
	}
	return true
}

const intersectionEpsilon float32 = 0.05
