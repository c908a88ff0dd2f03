// pkg/diagnostics/server_test.go

package diagnostics

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mmp/dronewarden/pkg/config"
	"github.com/mmp/dronewarden/pkg/enforce"
)

func TestServeSnapshotReturnsCurrentSummary(t *testing.T) {
	cfg := config.Default()
	r := NewRecorder(cfg)
	sig := newTestSignal(0, 0, -2, 20, 20, -2)
	r.RecordTick(0, &fakeCoordinator{}, sig, sig.Now())

	s := NewServer(r)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/snapshot")
	if err != nil {
		t.Fatalf("GET /snapshot: %v", err)
	}
	defer resp.Body.Close()

	var summary Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decoding /snapshot body: %v", err)
	}
	if summary.Ticks != 1 {
		t.Errorf("summary.Ticks = %d, want 1", summary.Ticks)
	}
}

func TestServeMetricsExposesPrometheusGauges(t *testing.T) {
	cfg := config.Default()
	r := NewRecorder(cfg)
	coord := &fakeCoordinator{enforcers: []enforce.Enforcer{&fakeEnforcer{name: "boundary", robustness: -1}}}
	sig := newTestSignal(0, 0, -2, 20, 20, -2)
	r.RecordTick(0, coord, sig, sig.Now())

	s := NewServer(r)
	s.Publish(0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading /metrics body: %v", err)
	}
	if !strings.Contains(string(body), "dronewarden_property_robustness") {
		t.Errorf("/metrics output missing dronewarden_property_robustness gauge")
	}
	if !strings.Contains(string(body), "dronewarden_property_violation_ticks_total") {
		t.Errorf("/metrics output missing dronewarden_property_violation_ticks_total gauge")
	}
}

func TestStreamPublishesTickFrameToConnectedClient(t *testing.T) {
	cfg := config.Default()
	r := NewRecorder(cfg)
	coord := &fakeCoordinator{enforcers: []enforce.Enforcer{&fakeEnforcer{name: "boundary", robustness: -1}}}
	sig := newTestSignal(0, 0, -2, 20, 20, -2)
	r.RecordTick(0, coord, sig, sig.Now())

	s := NewServer(r)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing /stream: %v", err)
	}
	defer conn.Close()

	// Give the server's accept goroutine a moment to register the
	// connection before publishing.
	time.Sleep(20 * time.Millisecond)
	s.Publish(3)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading stream frame: %v", err)
	}

	var frame struct {
		Tick   int      `json:"tick"`
		Series []Series `json:"series"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("unmarshaling stream frame: %v", err)
	}
	if frame.Tick != 3 {
		t.Errorf("frame.Tick = %d, want 3", frame.Tick)
	}
}
