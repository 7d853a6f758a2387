package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/example/soctopo/compose"
	"github.com/example/soctopo/elab"
)

// RunReport is the payload pushed to inspector clients once a run
// finishes: the exit event plus the per-core workload positions.
type RunReport struct {
	Exit     *elab.ExitEvent     `json:"exit"`
	Progress []elab.CoreProgress `json:"progress"`
}

// WebServer serves the topology inspector: a JSON view of the composed
// system plus a WebSocket channel that pushes the run report.
type WebServer struct {
	mu           sync.RWMutex
	snapshot     *TopologySnapshot
	latestReport *RunReport
	hub          *wsHub
	server       *http.Server
}

// NewWebServer builds an inspector bound to addr. The topology snapshot
// is taken once up front; the composed graph never rewires after
// assembly, so there is nothing to refresh.
func NewWebServer(addr string, sys *compose.System) *WebServer {
	ws := &WebServer{
		snapshot: BuildTopologySnapshot(sys),
		hub:      newHub(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/topology", ws.handleTopology)
	mux.HandleFunc("/api/report", ws.handleReport)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.hub.handle(ws, w, r)
	})
	mux.Handle("/", http.FileServer(http.Dir("web/static")))

	ws.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return ws
}

// Serve blocks on the HTTP listener until the server is shut down.
func (ws *WebServer) Serve() error {
	GetLogger().Infof("Topology inspector listening on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// PublishReport records the run outcome and pushes it to every
// connected WebSocket client.
func (ws *WebServer) PublishReport(exit *elab.ExitEvent, progress []elab.CoreProgress) {
	report := &RunReport{Exit: exit, Progress: progress}

	ws.mu.Lock()
	ws.latestReport = report
	ws.mu.Unlock()

	ws.hub.broadcastReport(report)
}

func (ws *WebServer) handleTopology(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ws.snapshot); err != nil {
		http.Error(w, "Failed to encode topology", http.StatusInternalServerError)
	}
}

func (ws *WebServer) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ws.mu.RLock()
	report := ws.latestReport
	ws.mu.RUnlock()

	if report == nil {
		http.Error(w, "No report available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, "Failed to encode report", http.StatusInternalServerError)
	}
}
