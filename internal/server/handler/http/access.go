package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// AccessAlertHandler handles the simulated access-alert flow: an access
// attempt raises an alert, and the owner confirms or blocks it. Everything
// is recorded in the audit log only; no real enforcement happens here.
type AccessAlertHandler struct {
	Audit AuditSink
}

// Alert handles POST /api/access/alert.
// It records an access attempt by the named party awaiting owner
// confirmation.
func (h *AccessAlertHandler) Alert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Who string `json:"who"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Who == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	alertID := "acc-" + uuid.NewString()[:4]
	h.Audit.Append(fmt.Sprintf("[alert] (%s) access attempt by %s. awaiting owner confirmation.", alertID, req.Who))
	writeJSON(w, http.StatusAccepted, map[string]string{"alertId": alertID})
}

// Confirm handles POST /api/access/confirm.
// It records the owner's decision for a pending access attempt.
func (h *AccessAlertHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Who   string `json:"who"`
		Allow bool   `json:"allow"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Who == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Allow {
		h.Audit.Append(fmt.Sprintf("[alert] authorized: %s.", req.Who))
	} else {
		h.Audit.Append(fmt.Sprintf("[alert] blocked: %s.", req.Who))
	}
	w.WriteHeader(http.StatusNoContent)
}
