// Package http provides the HTTP handlers of the engine: document access,
// share actions, partial document artifacts, contacts and the audit log.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cipherdoc/internal/middleware"
	"cipherdoc/internal/models"
)

// DocumentService defines the document operations required by the
// DocumentHandler.
type DocumentService interface {
	// Units returns the unit sequence in document order.
	Units() []models.Unit
	// Pages returns the derived page partition.
	Pages() []models.Page
	// PageSize returns the current page size.
	PageSize() int
	// Append adds a unit at the end of the document.
	Append(text string) models.Unit
	// SetText replaces a unit's text; false if the unit does not exist.
	SetText(id int, text string) bool
	// SetPageSize updates the page size and returns the effective value.
	SetPageSize(n int) int
}

// AccessService resolves per-viewer visibility and editability.
type AccessService interface {
	IsVisible(viewer string, unitID int) bool
	IsEditable(viewer string, unitID int) bool
}

// DocumentHandler handles HTTP requests for the document and its rendered
// per-viewer projection.
type DocumentHandler struct {
	Docs   DocumentService
	Access AccessService
}

// Get handles GET /api/document.
// It returns the full unit sequence together with the current page
// partition. This is the owner's view; use Render for other viewers.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"units":    h.Docs.Units(),
		"pages":    h.Docs.Pages(),
		"pageSize": h.Docs.PageSize(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// Append handles POST /api/document/units.
// It expects a JSON body with a "text" field and returns the new unit.
func (h *DocumentHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	unit := h.Docs.Append(req.Text)
	writeJSON(w, http.StatusCreated, unit)
}

// SetText handles PUT /api/document/units/{id}.
func (h *DocumentHandler) SetText(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid unit id", http.StatusBadRequest)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if !h.Docs.SetText(id, req.Text) {
		http.Error(w, "unit not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPageSize handles PUT /api/document/pagesize.
// Values below the minimum are rejected by the store, which keeps the
// previous valid size; the effective size is returned either way.
func (h *DocumentHandler) SetPageSize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PageSize int `json:"pageSize"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	effective := h.Docs.SetPageSize(req.PageSize)
	writeJSON(w, http.StatusOK, map[string]int{"pageSize": effective})
}

// renderedUnit is one unit of a viewer's projection. Hidden units carry no
// text.
type renderedUnit struct {
	ID       int    `json:"id"`
	Text     string `json:"text,omitempty"`
	Visible  bool   `json:"visible"`
	Editable bool   `json:"editable"`
}

// Render handles GET /api/document/render.
// The viewer comes from the "viewer" query parameter, falling back to the
// identity header. Units the viewer may not see are masked.
func (h *DocumentHandler) Render(w http.ResponseWriter, r *http.Request) {
	viewer := r.URL.Query().Get("viewer")
	if viewer == "" {
		viewer = middleware.GetViewerFromContext(r.Context())
	}
	units := h.Docs.Units()
	out := make([]renderedUnit, 0, len(units))
	for _, u := range units {
		ru := renderedUnit{
			ID:       u.ID,
			Visible:  h.Access.IsVisible(viewer, u.ID),
			Editable: h.Access.IsEditable(viewer, u.ID),
		}
		if ru.Visible {
			ru.Text = u.Text
		}
		out = append(out, ru)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"viewer": viewer,
		"units":  out,
	})
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
