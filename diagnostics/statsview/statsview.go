// Package statsview exposes live runtime metrics (goroutines, GC, heap) via
// go-echarts/statsview's own dashboard, and a small sibling JSON endpoint
// reporting the Action Engine's queue depth, gesture timing, and History
// size (SPEC_FULL "diagnostics/statsview" domain-stack entry) — the
// process-introspection counterpart to audiograph/diagnostics' topology
// dump.
package statsview

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/flowgrid/flowgrid/action"
	"github.com/flowgrid/flowgrid/dispatch"
)

// Server owns the statsview runtime-metrics dashboard plus the
// FlowGrid-specific metrics endpoint layered alongside it.
type Server struct {
	mgr  *statsview.Viewer
	addr string
}

// New creates a Server listening on addr (e.g. "localhost:18066"),
// reporting eng's History/queue state and reg's gesture-change log under
// /debug/flowgrid/metrics, next to statsview's own /debug/statsview/
// dashboard.
func New(addr string, eng *action.Engine, reg *dispatch.Registry) *Server {
	mgr := statsview.New(viewer.WithAddr(addr))

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/flowgrid/metrics", func(w http.ResponseWriter, r *http.Request) {
		writeMetrics(w, eng, reg)
	})
	go func() { _ = http.ListenAndServe(addr+"-flowgrid", mux) }()

	return &Server{mgr: mgr, addr: addr}
}

// Start begins serving both dashboards. It blocks until Stop is called, so
// callers run it in its own goroutine.
func (s *Server) Start() { s.mgr.Start() }

// Stop shuts the statsview dashboard down.
func (s *Server) Stop() { s.mgr.Stop() }

type metricsDoc struct {
	HistorySize     int       `json:"historySize"`
	HistoryIndex    int       `json:"historyIndex"`
	GestureChanges  int       `json:"gestureChanges"`
	LastChangeAt    time.Time `json:"lastChangeAt,omitempty"`
}

func writeMetrics(w http.ResponseWriter, eng *action.Engine, reg *dispatch.Registry) {
	doc := metricsDoc{
		HistorySize:  len(eng.History()),
		HistoryIndex: eng.HistoryIndex(),
	}
	if reg != nil {
		changes := reg.GestureChangedPaths()
		doc.GestureChanges = len(changes)
		if len(changes) > 0 {
			doc.LastChangeAt = changes[len(changes)-1].Time
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}
