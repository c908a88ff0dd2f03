// pkg/config/watch_test.go

package config

import (
	"os"
	"testing"
	"time"
)

func TestWatchDeliversReloadOnWrite(t *testing.T) {
	path := writeConfig(t, "MAX_DRONE_SPEED 2\n")

	reloads, stop, err := Watch(path, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	if err := os.WriteFile(path, []byte("MAX_DRONE_SPEED 9\n"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case c := <-reloads:
		if c.MaxDroneSpeed != 9 {
			t.Errorf("reloaded MaxDroneSpeed = %v, want 9", c.MaxDroneSpeed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a reload event")
	}
}

func TestLogChangesToleratesNilLogger(t *testing.T) {
	old := Default()
	updated := Default()
	updated.MaxDroneSpeed = 99

	// logChanges only logs; it must not panic or mutate its inputs when a
	// nil Logger is passed (nil-receiver tolerance from pkg/log).
	logChanges(nil, old, updated)

	if old.MaxDroneSpeed == updated.MaxDroneSpeed {
		t.Fatalf("test setup broken: old and updated should differ")
	}
}
