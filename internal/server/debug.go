package server

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"

	"scene-manager/internal/domain"
	"scene-manager/internal/engine"
	"scene-manager/internal/history"
	"scene-manager/internal/modules"
	"scene-manager/internal/systems"
	"scene-manager/pkg/logger"

	"github.com/shirou/gopsutil/v3/process"
)

// DebugHandler exposes the panel internals. Reads run on the panel loop.
type DebugHandler struct {
	Service *engine.PanelService
}

func NewDebugHandler(s *engine.PanelService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes registers the debug endpoints.
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/selection", h.handleSelection)
	mux.HandleFunc("/debug/catalog", h.handleCatalog)
	mux.HandleFunc("/debug/history", h.handleHistory)
	mux.HandleFunc("/debug/process", h.handleProcess)
}

// /debug/entities - every live host entity, hidden ones included
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	var entities []domain.EntitySnapshot
	err := h.Service.Query(r.Context(), func(p *engine.Panel) {
		entities = p.AllEntities()
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, entities)
}

// /debug/selection - members plus the reconciled transform fields
func (h *DebugHandler) handleSelection(w http.ResponseWriter, r *http.Request) {
	type SelectionDump struct {
		Members   []string                `json:"members"`
		Transform *systems.Reconciliation `json:"transform,omitempty"`
		Editing   bool                    `json:"editing"`
	}

	var dump SelectionDump
	err := h.Service.Query(r.Context(), func(p *engine.Panel) {
		for _, m := range p.Selection() {
			dump.Members = append(dump.Members, m.Key())
		}
		if rec, ok := p.Reconcile(); ok {
			dump.Transform = &rec
		}
		dump.Editing = p.Editing()
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, dump)
}

// /debug/catalog - the memoized capability catalog
func (h *DebugHandler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, modules.Catalog())
}

// /debug/history - the undo stack, oldest first
func (h *DebugHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	var records []history.Record
	err := h.Service.Query(r.Context(), func(p *engine.Panel) {
		records = p.History()
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, records)
}

// /debug/process - resident memory and thread count of the server process
func (h *DebugHandler) handleProcess(w http.ResponseWriter, r *http.Request) {
	type ProcessView struct {
		PID        int     `json:"pid"`
		RSS        uint64  `json:"rss_bytes"`
		Threads    int32   `json:"threads"`
		CPUPercent float64 `json:"cpu_percent"`
		Goroutines int     `json:"goroutines"`
	}

	pid := os.Getpid()
	view := ProcessView{PID: pid, Goroutines: runtime.NumGoroutine()}

	proc, err := process.NewProcessWithContext(r.Context(), int32(pid))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if mem, err := proc.MemoryInfoWithContext(r.Context()); err == nil {
		view.RSS = mem.RSS
	} else {
		logger.Log.WithError(err).Debug("process memory info unavailable")
	}
	if n, err := proc.NumThreadsWithContext(r.Context()); err == nil {
		view.Threads = n
	}
	if cpu, err := proc.CPUPercentWithContext(r.Context()); err == nil {
		view.CPUPercent = cpu
	}

	writeJSON(w, view)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Any origin, so a local debug page can poll.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("debug response encode failed")
	}
}
