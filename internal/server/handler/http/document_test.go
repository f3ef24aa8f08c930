package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherdoc/internal/models"
	handler "cipherdoc/internal/server/handler/http"
)

// fakeDocs is a hand-rolled DocumentService for handler tests.
type fakeDocs struct {
	units    []models.Unit
	pageSize int
}

func (f *fakeDocs) Units() []models.Unit { return f.units }

func (f *fakeDocs) Pages() []models.Page {
	var pages []models.Page
	for start := 0; start < len(f.units); start += f.pageSize {
		end := start + f.pageSize
		if end > len(f.units) {
			end = len(f.units)
		}
		pages = append(pages, models.Page{Index: len(pages), Start: start, End: end})
	}
	return pages
}

func (f *fakeDocs) PageSize() int { return f.pageSize }

func (f *fakeDocs) Append(text string) models.Unit {
	u := models.Unit{ID: len(f.units), Text: text}
	f.units = append(f.units, u)
	return u
}

func (f *fakeDocs) SetText(id int, text string) bool {
	for i := range f.units {
		if f.units[i].ID == id {
			f.units[i].Text = text
			return true
		}
	}
	return false
}

func (f *fakeDocs) SetPageSize(n int) int {
	if n >= 5 {
		f.pageSize = n
	}
	return f.pageSize
}

// fakeAccess makes unit 0 visible to everyone and everything else
// owner-only.
type fakeAccess struct{}

func (fakeAccess) IsVisible(viewer string, unitID int) bool {
	return viewer == "owner" || unitID == 0
}

func (fakeAccess) IsEditable(viewer string, unitID int) bool {
	return viewer == "owner"
}

func newDocumentRouter(docs *fakeDocs) http.Handler {
	h := &handler.DocumentHandler{Docs: docs, Access: fakeAccess{}}
	r := chi.NewRouter()
	r.Get("/api/document", h.Get)
	r.Get("/api/document/render", h.Render)
	r.Post("/api/document/units", h.Append)
	r.Put("/api/document/units/{id}", h.SetText)
	r.Put("/api/document/pagesize", h.SetPageSize)
	return r
}

func TestDocumentHandler_Get(t *testing.T) {
	docs := &fakeDocs{pageSize: 2}
	docs.Append("a")
	docs.Append("b")
	docs.Append("c")
	router := newDocumentRouter(docs)

	req := httptest.NewRequest(http.MethodGet, "/api/document", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"pageSize":2`)
}

func TestDocumentHandler_Append(t *testing.T) {
	docs := &fakeDocs{pageSize: 18}
	router := newDocumentRouter(docs)

	body := strings.NewReader(`{"text":"new line"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/document/units", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, docs.units, 1)
	assert.Equal(t, "new line", docs.units[0].Text)
}

func TestDocumentHandler_Append_InvalidBody(t *testing.T) {
	router := newDocumentRouter(&fakeDocs{pageSize: 18})

	req := httptest.NewRequest(http.MethodPost, "/api/document/units", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentHandler_SetText(t *testing.T) {
	docs := &fakeDocs{pageSize: 18}
	docs.Append("old")
	router := newDocumentRouter(docs)

	req := httptest.NewRequest(http.MethodPut, "/api/document/units/0", strings.NewReader(`{"text":"edited"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "edited", docs.units[0].Text)
}

func TestDocumentHandler_SetText_UnknownUnit(t *testing.T) {
	router := newDocumentRouter(&fakeDocs{pageSize: 18})

	req := httptest.NewRequest(http.MethodPut, "/api/document/units/42", strings.NewReader(`{"text":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentHandler_SetPageSize_KeepsPreviousOnRejectedValue(t *testing.T) {
	docs := &fakeDocs{pageSize: 10}
	router := newDocumentRouter(docs)

	req := httptest.NewRequest(http.MethodPut, "/api/document/pagesize", strings.NewReader(`{"pageSize":3}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pageSize":10`)
}

func TestDocumentHandler_Render_MasksHiddenUnits(t *testing.T) {
	docs := &fakeDocs{pageSize: 18}
	docs.Append("public")
	docs.Append("secret")
	router := newDocumentRouter(docs)

	req := httptest.NewRequest(http.MethodGet, "/api/document/render?viewer=guest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "public")
	assert.NotContains(t, body, "secret", "hidden unit text must not leak")
}
