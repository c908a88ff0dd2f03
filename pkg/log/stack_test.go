// pkg/log/stack_test.go

package log

import "testing"

func TestCallstackNonEmpty(t *testing.T) {
	frames := Callstack(nil)
	if len(frames) == 0 {
		t.Fatalf("expected at least one stack frame")
	}
	if frames[0].Line == 0 {
		t.Errorf("expected a nonzero line number in the first frame")
	}
}

func TestStackFrameString(t *testing.T) {
	f := StackFrame{File: "foo.go", Line: 42, Function: "Bar"}
	want := "foo.go:42:Bar"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
