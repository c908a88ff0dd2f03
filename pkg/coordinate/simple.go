// pkg/coordinate/simple.go

package coordinate

import (
	dwmath "github.com/mmp/dronewarden/pkg/math"
	"github.com/mmp/dronewarden/pkg/trace"
)

// Simple defers entirely to its first registered enforcer: whatever
// that enforcer proposes (including "no change" when it isn't
// violated) is sent. It exists as the baseline every other strategy is
// compared against, not as a serious coordination policy.
type Simple struct {
	set
}

func NewSimple() *Simple { return &Simple{} }

func (*Simple) Name() string { return "simple" }

func (s *Simple) Coordinate(sig *trace.Signal, now int, proposed dwmath.Vec3) (dwmath.Vec3, error) {
	e := s.entries[0].enforcer
	candidates, _ := e.Enforce(sig, now, proposed)
	return candidates[0], nil
}
