// pkg/diagnostics/server.go

package diagnostics

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a running Recorder over HTTP: a Prometheus /metrics
// endpoint with one gauge per property's latest robustness value and
// one gauge per property's cumulative violation-tick count, a JSON snapshot endpoint,
// and a websocket stream that pushes one frame per RecordTick call to
// any connected dashboard. None of this is part of the core contract —
// spec.md leaves diagnostic output format unspecified — it exists to
// give the msgpack/JSON dump a live equivalent during a run.
type Server struct {
	mu       sync.Mutex
	recorder *Recorder

	reg        *prometheus.Registry
	robustness *prometheus.GaugeVec
	violations *prometheus.GaugeVec

	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]struct{}
}

func NewServer(r *Recorder) *Server {
	reg := prometheus.NewRegistry()
	robustness := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dronewarden_property_robustness",
		Help: "latest robustness value per enforced property",
	}, []string{"property"})
	violations := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dronewarden_property_violation_ticks_total",
		Help: "cumulative ticks each property has spent in violation so far this run",
	}, []string{"property"})
	reg.MustRegister(robustness, violations)

	return &Server{
		recorder:   r,
		reg:        reg,
		robustness: robustness,
		violations: violations,
		upgrader:   websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:    make(map[*websocket.Conn]struct{}),
	}
}

// Handler builds the mux router: /metrics for Prometheus scrape,
// /snapshot for a point-in-time JSON summary, /stream for the websocket
// feed.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/snapshot", s.serveSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/stream", s.serveStream).Methods(http.MethodGet)
	return r
}

func (s *Server) serveSnapshot(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.recorder.Summary())
}

func (s *Server) serveStream(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	// The client only ever receives; read until it closes the
	// connection so the handler goroutine exits promptly.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish pushes tick's latest property values to every connected
// websocket client and updates the Prometheus gauges. Call
// once per RecordTick, after RecordTick itself.
func (s *Server) Publish(tick int) {
	summary := s.recorder.Summary()
	for _, series := range summary.Series {
		if len(series.Robustness) == 0 {
			continue
		}
		s.robustness.WithLabelValues(series.Name).Set(float64(series.Robustness[len(series.Robustness)-1]))
		s.violations.WithLabelValues(series.Name).Set(float64(series.ViolationTicks))
	}

	frame := struct {
		Tick   int      `json:"tick"`
		Series []Series `json:"series"`
	}{Tick: tick, Series: summary.Series}

	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}
