package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cipherdoc/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the engine API.
//
// Routes:
//
//	GET    /api/document                     -> document units and pages
//	POST   /api/document/units               -> append a unit
//	PUT    /api/document/units/{id}          -> set unit text
//	PUT    /api/document/pagesize            -> change page size
//	GET    /api/document/render              -> per-viewer projection
//	POST   /api/share                        -> apply a share action
//	GET    /api/share/users                  -> registered users
//	GET    /api/share/grants                 -> grants for a user
//	POST   /api/key/activate                 -> generate the session key
//	GET    /api/status                       -> engine status
//	POST   /api/artifacts                    -> run the encryption workflow
//	GET    /api/artifacts/current            -> live partial document
//	DELETE /api/artifacts/current            -> close the live artifact
//	POST   /api/artifacts/current/decrypt    -> preview decryption
//	POST   /api/access/alert                 -> simulated access attempt
//	POST   /api/access/confirm               -> owner's allow/block decision
//	GET    /api/contacts                     -> contact directory
//	GET    /api/logs, /api/logs/export       -> audit log, export blob
//	GET    /api/logs/stream                  -> websocket live feed
//	GET    /metrics                          -> Prometheus metrics
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json"): rejects non-JSON bodies
//  2. WithRequestLogging(logger): logs incoming requests
//  3. WithViewer(owner): simulated viewer identity
func NewRouter(
	documentHandler *DocumentHandler,
	shareHandler *ShareHandler,
	artifactHandler *ArtifactHandler,
	logsHandler *LogsHandler,
	contactsHandler *ContactsHandler,
	accessHandler *AccessAlertHandler,
	owner string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json (bodyless
	// requests pass through).
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Attach the simulated viewer identity
	r.Use(middleware.WithViewer(owner))

	r.Route("/api", func(r chi.Router) {
		r.Route("/document", func(r chi.Router) {
			r.Get("/", documentHandler.Get)
			r.Get("/render", documentHandler.Render)
			r.Post("/units", documentHandler.Append)
			r.Put("/units/{id}", documentHandler.SetText)
			r.Put("/pagesize", documentHandler.SetPageSize)
		})

		r.Post("/share", shareHandler.Share)
		r.Get("/share/users", shareHandler.Users)
		r.Get("/share/grants", shareHandler.Grants)

		r.Post("/key/activate", artifactHandler.ActivateKey)
		r.Get("/status", artifactHandler.Status)

		r.Route("/artifacts", func(r chi.Router) {
			r.Post("/", artifactHandler.Create)
			r.Get("/current", artifactHandler.Current)
			r.Delete("/current", artifactHandler.Close)
			r.Post("/current/decrypt", artifactHandler.Decrypt)
		})

		r.Post("/access/alert", accessHandler.Alert)
		r.Post("/access/confirm", accessHandler.Confirm)

		r.Get("/contacts", contactsHandler.List)

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", logsHandler.List)
			r.Get("/export", logsHandler.Export)
			r.Get("/stream", logsHandler.Stream)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
