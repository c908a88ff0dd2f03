// pkg/stl/expr_test.go

package stl

import (
	"testing"

	"github.com/mmp/dronewarden/pkg/trace"
)

// constProp builds a Prop whose robustness is fixed per-tick by values,
// indexed by tick.
func constProp(values map[int]float32) *Prop {
	return NewProp(func(sig *trace.Signal, t int) (float32, bool) {
		v := values[t]
		return v, v >= 0
	})
}

func newSignalAt(n int) *trace.Signal {
	s := trace.New([]string{"x"})
	for i := 0; i < n; i++ {
		s.Append([]float32{0})
	}
	return s
}

func TestPropUnavailableTick(t *testing.T) {
	sig := newSignalAt(0) // only the sentinel frame, tick 0
	p := constProp(map[int]float32{0: 5})

	if got := p.Robustness(sig, 5); got != UnknownRobustness {
		t.Errorf("Robustness at unavailable tick = %v, want UnknownRobustness", got)
	}
	if got := p.Sat(sig, 5); got != UnknownSat {
		t.Errorf("Sat at unavailable tick = %v, want UnknownSat", got)
	}
}

func TestPropAvailableTick(t *testing.T) {
	sig := newSignalAt(3)
	p := constProp(map[int]float32{2: 1.5})

	if got := p.Robustness(sig, 2); got != 1.5 {
		t.Errorf("Robustness(2) = %v, want 1.5", got)
	}
	if !p.Sat(sig, 2) {
		t.Errorf("Sat(2) = false, want true")
	}
}

func TestNot(t *testing.T) {
	sig := newSignalAt(1)
	p := constProp(map[int]float32{0: 3})
	n := NewNot(p)

	if got := n.Robustness(sig, 0); got != -3 {
		t.Errorf("Not.Robustness(0) = %v, want -3", got)
	}
	if n.Sat(sig, 0) {
		t.Errorf("Not.Sat(0) = true, want false (inner satisfied)")
	}
}

func TestAnd(t *testing.T) {
	sig := newSignalAt(1)
	left := constProp(map[int]float32{0: 3})
	right := constProp(map[int]float32{0: -1})
	a := NewAnd(left, right)

	if got := a.Robustness(sig, 0); got != -1 {
		t.Errorf("And.Robustness(0) = %v, want -1 (min)", got)
	}
	if a.Sat(sig, 0) {
		t.Errorf("And.Sat(0) = true, want false (right violates)")
	}
}

func TestImplies(t *testing.T) {
	sig := newSignalAt(1)

	// left violated (robustness -2) -> implication trivially satisfied,
	// robustness = max(-(-2), right) = max(2, right).
	left := constProp(map[int]float32{0: -2})
	right := constProp(map[int]float32{0: -5})
	i := NewImplies(left, right)

	if got := i.Robustness(sig, 0); got != 2 {
		t.Errorf("Implies.Robustness(0) = %v, want 2", got)
	}
	if !i.Sat(sig, 0) {
		t.Errorf("Implies.Sat(0) = false, want true (antecedent false)")
	}
}

func TestGloballyMinOverWindow(t *testing.T) {
	sig := newSignalAt(5)
	p := constProp(map[int]float32{0: 3, 1: 1, 2: 5, 3: -2, 4: 4})
	g := NewGlobally(p, 0, 4)

	if got := g.Robustness(sig, 0); got != -2 {
		t.Errorf("Globally.Robustness(0) = %v, want -2 (min over window)", got)
	}
	if g.Sat(sig, 0) {
		t.Errorf("Globally.Sat(0) = true, want false (tick 3 violates)")
	}
}

func TestGloballyAllSatisfied(t *testing.T) {
	sig := newSignalAt(3)
	p := constProp(map[int]float32{0: 1, 1: 2, 2: 3})
	g := NewGlobally(p, 0, 2)

	if !g.Sat(sig, 0) {
		t.Errorf("Globally.Sat(0) = false, want true (all ticks satisfy)")
	}
}

func TestGloballyUnavailableWindow(t *testing.T) {
	sig := newSignalAt(2)
	p := constProp(map[int]float32{0: 1})
	g := NewGlobally(p, 0, 5) // window runs past the end of the trace

	if got := g.Robustness(sig, 0); got != UnknownRobustness {
		t.Errorf("Globally.Robustness with out-of-range window = %v, want UnknownRobustness", got)
	}
}

func TestPastGloballyMinOverWindow(t *testing.T) {
	sig := newSignalAt(5)
	p := constProp(map[int]float32{0: 3, 1: -1, 2: 5, 3: 2, 4: 1})
	// at tick 4, look back over [4-3, 4-0] = [1, 4]
	g := NewPastGlobally(p, 3, 0)

	if got := g.Robustness(sig, 4); got != -1 {
		t.Errorf("PastGlobally.Robustness(4) = %v, want -1 (min over [1,4])", got)
	}
	if g.Sat(sig, 4) {
		t.Errorf("PastGlobally.Sat(4) = true, want false (tick 1 violates)")
	}
}

func TestPastGloballyUnavailableBeforeStart(t *testing.T) {
	sig := newSignalAt(2)
	p := constProp(map[int]float32{0: 1, 1: 1})
	g := NewPastGlobally(p, 5, 0) // begin reaches before tick 0

	if got := g.Robustness(sig, 1); got != UnknownRobustness {
		t.Errorf("PastGlobally.Robustness looking past trace start = %v, want UnknownRobustness", got)
	}
}
