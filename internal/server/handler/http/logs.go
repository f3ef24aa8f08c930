package http

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cipherdoc/internal/models"
)

// AuditService defines the audit log operations required by the
// LogsHandler.
type AuditService interface {
	// Entries returns all entries in append order.
	Entries() []models.AuditEntry
	// Export serializes the log as a downloadable blob named by epoch time.
	Export() (filename string, blob []byte)
	// Subscribe registers a live feed of new entries.
	Subscribe() (<-chan models.AuditEntry, func())
}

// LogsHandler handles HTTP requests for the security audit log.
type LogsHandler struct {
	Audit  AuditService
	Logger *zap.Logger

	upgrader websocket.Upgrader
}

// List handles GET /api/logs.
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Audit.Entries())
}

// Export handles GET /api/logs/export.
// It serves all entries newline-joined as a text attachment.
func (h *LogsHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename, blob := h.Audit.Export()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(blob)
}

// Stream handles GET /api/logs/stream.
// It upgrades the connection to a websocket and pushes each new audit entry
// as a JSON message until the client disconnects.
func (h *LogsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	entries, cancel := h.Audit.Subscribe()
	defer cancel()

	// Drain client frames so closes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entry := <-entries:
			if err := conn.WriteJSON(entry); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
