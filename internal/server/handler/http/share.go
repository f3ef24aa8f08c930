package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"cipherdoc/internal/models"
)

// RegistryService defines the share registry operations required by the
// ShareHandler.
type RegistryService interface {
	// ShareWith applies a share action with full-replace semantics per user.
	ShareWith(targets []models.ShareTarget, scope models.Scope)
	// Users returns the registered users.
	Users() []models.User
	// GrantsFor returns the active grants for the named user.
	GrantsFor(name string) []models.Grant
}

// ShareHandler handles HTTP requests mutating and querying the share
// registry.
type ShareHandler struct {
	Registry RegistryService
	Audit    AuditSink
}

// AuditSink receives human-readable audit entries.
type AuditSink interface {
	Append(message string)
}

// Share handles POST /api/share.
// It expects a JSON body with "users" (name + tier each) and a "scope"
// (whole, lines or pages). The latest share action fully replaces prior
// grants for each named user.
func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Users []models.ShareTarget `json:"users"`
		Scope models.Scope         `json:"scope"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Users) == 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	switch req.Scope.Type {
	case models.ScopeWhole, models.ScopeLines, models.ScopePages:
	default:
		http.Error(w, "invalid scope type", http.StatusBadRequest)
		return
	}
	h.Registry.ShareWith(req.Users, req.Scope)

	names := make([]string, len(req.Users))
	for i, u := range req.Users {
		names[i] = u.Name
	}
	h.Audit.Append("[share] " + string(req.Scope.Type) + " disclosure applied for " + strings.Join(names, ", ") + ".")
	w.WriteHeader(http.StatusNoContent)
}

// Users handles GET /api/share/users.
func (h *ShareHandler) Users(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Registry.Users())
}

// Grants handles GET /api/share/grants.
// The user is named by the "user" query parameter.
func (h *ShareHandler) Grants(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("user")
	if name == "" {
		http.Error(w, "missing user", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.Registry.GrantsFor(name))
}
