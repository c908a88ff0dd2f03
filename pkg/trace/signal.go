// pkg/trace/signal.go

package trace

import (
	"fmt"

	"github.com/iancoleman/orderedmap"
)

// ChannelNames is the fixed ordering of telemetry channels carried by
// every Signal, expressed in the NED (north-east-down) local tangent
// frame with down positive toward the ground.
var ChannelNames = []string{
	"pos_north_m", "pos_east_m", "pos_down_m",
	"vel_north_m_s", "vel_east_m_s", "vel_down_m_s",
	"enemy_pos_north_m", "enemy_pos_east_m", "enemy_pos_down_m",
	"enemy_vel_north_m_s", "enemy_vel_east_m_s", "enemy_vel_down_m_s",
}

// Signal is a rolling, append-only trace of named numeric channels, one
// frame per control tick. It always carries at least the all-zero
// sentinel frame installed at construction; Pop refuses to remove that
// last frame, since the evaluation code assumes at least one frame is
// always available.
type Signal struct {
	index  *orderedmap.OrderedMap
	frames [][]float32
}

// New builds a Signal over the given channel names, seeded with one
// all-zero frame. Channel order is preserved so diagnostic dumps can
// report channels in a stable, human-meaningful order.
func New(names []string) *Signal {
	idx := orderedmap.New()
	for i, n := range names {
		idx.Set(n, i)
	}
	init := make([]float32, len(names))
	return &Signal{index: idx, frames: [][]float32{init}}
}

// NewDefault builds a Signal over ChannelNames.
func NewDefault() *Signal {
	return New(ChannelNames)
}

func (s *Signal) indexOf(name string) int {
	v, ok := s.index.Get(name)
	if !ok {
		panic(fmt.Sprintf("trace: unknown channel %q", name))
	}
	return v.(int)
}

// Append adds a new frame to the end of the trace. next must have one
// value per channel, in the order the Signal was constructed with.
func (s *Signal) Append(next []float32) {
	if len(next) != len(s.frames[0]) {
		panic(fmt.Sprintf("trace: append expected %d channels, got %d", len(s.frames[0]), len(next)))
	}
	frame := make([]float32, len(next))
	copy(frame, next)
	s.frames = append(s.frames, frame)
}

// Pop removes the most recently appended frame. It is an invariant
// violation to call Pop when only the sentinel frame remains: callers
// that speculatively append a predicted frame for scoring must always
// pop exactly the frame they pushed, never the sentinel underneath it.
func (s *Signal) Pop() {
	if len(s.frames) <= 1 {
		panic("trace: pop called with only the sentinel frame remaining")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Value returns the current (most recent) value of the named channel.
func (s *Signal) Value(name string) float32 {
	return s.frames[len(s.frames)-1][s.indexOf(name)]
}

// ValueAt returns the value of the named channel at tick t. It panics if
// t is out of range; callers must check Available(t) first when t is not
// known to be in range by construction.
func (s *Signal) ValueAt(name string, t int) float32 {
	if !s.Available(t) {
		panic(fmt.Sprintf("trace: tick %d unavailable (length %d)", t, len(s.frames)))
	}
	return s.frames[t][s.indexOf(name)]
}

// Available reports whether tick t has a recorded frame.
func (s *Signal) Available(t int) bool {
	return t >= 0 && t < len(s.frames)
}

// Length returns the number of recorded frames, including the sentinel.
func (s *Signal) Length() int {
	return len(s.frames)
}

// ScopedWithFrame appends frame, invokes fn with the signal now including
// it, and pops the frame before returning — even if fn panics. Every
// one-step-ahead "what-if" evaluation in the coordinator goes through
// this so a speculative score can never leak an extra frame onto the
// trace.
func ScopedWithFrame[R any](s *Signal, frame []float32, fn func(*Signal) R) R {
	s.Append(frame)
	defer s.Pop()
	return fn(s)
}

// Now returns the index of the most recent frame.
func (s *Signal) Now() int {
	return len(s.frames) - 1
}

// Names returns the channel names in construction order.
func (s *Signal) Names() []string {
	names := make([]string, 0, s.index.Len())
	for _, k := range s.index.Keys() {
		names = append(names, k)
	}
	return names
}
