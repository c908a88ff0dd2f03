// pkg/enforce/boundary_test.go

package enforce

import (
	"testing"

	"github.com/mmp/dronewarden/pkg/config"
	dwmath "github.com/mmp/dronewarden/pkg/math"
)

func TestBoundarySatisfiedInsideBox(t *testing.T) {
	cfg := config.Default()
	b := NewBoundary(cfg)
	sig := sigWith(frame{posN: 0, posE: 0, posD: -2})

	cands, active := b.Enforce(sig, sig.Now(), dwmath.Vec3{1, 0, 0})
	if active {
		t.Fatalf("expected boundary satisfied at box center, got active with %d candidates", len(cands))
	}
	if len(cands) != 1 || cands[0] != (dwmath.Vec3{1, 0, 0}) {
		t.Errorf("expected the proposed velocity to pass through unchanged, got %v", cands)
	}
}

func TestBoundaryViolatedNearEdge(t *testing.T) {
	cfg := config.Default()
	b := NewBoundary(cfg)

	// BoundaryXMax defaults to 10; moving north fast near the edge should
	// trip the TTI property within BoundarySafeTTIThreshold seconds.
	sig := sigWith(frame{posN: 9.8, posE: 0, posD: -2, velN: 2})

	cands, active := b.Enforce(sig, sig.Now(), dwmath.Vec3{1, 0, 0})
	if !active {
		t.Fatalf("expected boundary violated approaching the north edge")
	}
	if len(cands) == 0 {
		t.Errorf("expected at least one candidate when violated")
	}
}
