package http

import (
	"net/http"

	"cipherdoc/internal/models"
)

// ContactService defines the directory lookup required by the
// ContactsHandler.
type ContactService interface {
	All() []models.Contact
}

// ContactsHandler handles HTTP requests for the static contact directory.
type ContactsHandler struct {
	Directory ContactService
}

// List handles GET /api/contacts.
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Directory.All())
}
