// Package health exposes a liveness endpoint for the watch loop.
package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status is the JSON body returned by GET /health.
type Status struct {
	Status            string `json:"status"`
	Uptime            string `json:"uptime"`
	LastRefreshTime   string `json:"last_refresh_time"`
	LastRefreshStatus string `json:"last_refresh_status"`
}

// Monitor tracks the watch loop's refresh outcomes. Safe for concurrent
// use from the loop and the HTTP handler.
type Monitor struct {
	mu                sync.RWMutex
	startTime         time.Time
	lastRefreshTime   time.Time
	lastRefreshStatus string
}

// NewMonitor creates a monitor with no refresh recorded yet.
func NewMonitor() *Monitor {
	return &Monitor{
		startTime:         time.Now(),
		lastRefreshStatus: "not started",
	}
}

// UpdateRefreshStatus records the outcome of a refresh attempt. Pass
// "success" or an error description.
func (m *Monitor) UpdateRefreshStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastRefreshTime = time.Now()
	m.lastRefreshStatus = status
}

// GetStatus snapshots the current health state.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	last := ""
	if !m.lastRefreshTime.IsZero() {
		last = m.lastRefreshTime.Format("2006-01-02 15:04:05")
	}
	return Status{
		Status:            "healthy",
		Uptime:            time.Since(m.startTime).String(),
		LastRefreshTime:   last,
		LastRefreshStatus: m.lastRefreshStatus,
	}
}

// Handler returns the /health handler for the monitor.
func Handler(monitor *Monitor) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(monitor.GetStatus())
	})
	return mux
}

// StartServer serves the health endpoint in a background goroutine.
func StartServer(monitor *Monitor, port string, log *zap.Logger) {
	go func() {
		log.Info("health server listening", zap.String("port", port))
		if err := http.ListenAndServe(":"+port, Handler(monitor)); err != nil {
			log.Warn("health server stopped", zap.Error(err))
		}
	}()
}
