package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"cipherdoc/internal/aead"
	"cipherdoc/internal/models"
	"cipherdoc/internal/service"
)

// WorkflowService defines the share workflow operations required by the
// ArtifactHandler.
type WorkflowService interface {
	// ActivateKey generates the session encryption key.
	ActivateKey() error
	// Status returns the coarse session state.
	Status() service.EngineStatus
	// GeneratePartial runs one share action end to end.
	GeneratePartial(req service.ShareRequest) (models.PartialDocument, error)
	// Live returns the live partial document, if any.
	Live() (models.PartialDocument, bool)
	// Close destroys the live partial document.
	Close() error
	// DecryptPreview decrypts the live artifact from its own key material.
	DecryptPreview() (string, error)
}

// ArtifactHandler handles HTTP requests for the key lifecycle and partial
// document artifacts.
type ArtifactHandler struct {
	Workflow WorkflowService
}

// ActivateKey handles POST /api/key/activate.
func (h *ArtifactHandler) ActivateKey(w http.ResponseWriter, r *http.Request) {
	if err := h.Workflow.ActivateKey(); err != nil {
		http.Error(w, "key activation failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(h.Workflow.Status())})
}

// Status handles GET /api/status.
func (h *ArtifactHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": string(h.Workflow.Status())})
}

// createRequest is the JSON payload of a share action.
type createRequest struct {
	Mode           models.SelectionMode      `json:"mode"`
	UnitIDs        []int                     `json:"unitIds"`
	Pages          []int                     `json:"pages"`
	TargetID       string                    `json:"targetId"`
	Permission     models.ArtifactPermission `json:"permission"`
	TimeoutMinutes int                       `json:"timeoutMinutes"`
}

// Create handles POST /api/artifacts.
// It runs the selective-encryption workflow over the given selection and
// returns the published artifact. The demo UI offers timeouts of 5, 60,
// 1440 or 0 minutes; any non-negative value is accepted here.
func (h *ArtifactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Mode != models.SelectByLine && req.Mode != models.SelectByPage {
		http.Error(w, "invalid selection mode", http.StatusBadRequest)
		return
	}
	if req.Permission != models.PermissionRead && req.Permission != models.PermissionWrite {
		http.Error(w, "invalid permission", http.StatusBadRequest)
		return
	}
	if req.TimeoutMinutes < 0 {
		http.Error(w, "timeout must be non-negative", http.StatusBadRequest)
		return
	}

	artifact, err := h.Workflow.GeneratePartial(service.ShareRequest{
		Selection: models.Selection{
			Mode:    req.Mode,
			UnitIDs: req.UnitIDs,
			Pages:   req.Pages,
		},
		TargetID:       req.TargetID,
		Permission:     req.Permission,
		TimeoutMinutes: req.TimeoutMinutes,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmptySelection):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, service.ErrNoActiveKey):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, service.ErrUnknownContact):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	default:
		http.Error(w, "share action failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, artifact)
}

// Current handles GET /api/artifacts/current.
func (h *ArtifactHandler) Current(w http.ResponseWriter, r *http.Request) {
	artifact, ok := h.Workflow.Live()
	if !ok {
		http.Error(w, "no live partial document", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

// Close handles DELETE /api/artifacts/current.
func (h *ArtifactHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.Workflow.Close(); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Decrypt handles POST /api/artifacts/current/decrypt.
// Integrity failures are surfaced to the caller, never swallowed.
func (h *ArtifactHandler) Decrypt(w http.ResponseWriter, r *http.Request) {
	content, err := h.Workflow.DecryptPreview()
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNoLiveArtifact):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, aead.ErrIntegrity):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	default:
		http.Error(w, "decrypt failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}
