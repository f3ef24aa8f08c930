// Package main initializes and starts the CipherDoc engine server, setting
// up configuration, logging, the in-memory stores, services and handlers.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"

	"cipherdoc/internal/config"
	"cipherdoc/internal/logger"
	"cipherdoc/internal/models"
	"cipherdoc/internal/repository"
	"cipherdoc/internal/server/handler/http"
	"cipherdoc/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// seedText is the demo document, one unit per line.
var seedText = []string{
	"# Encrypted document (demo)",
	"Select lines or pages to share with granular permissions.",
	"Use whole-document sharing to disclose everything at once.",
	"Or use selective sharing to disclose only fragments.",
	"Use view-as to check what each person can read.",
	"Page 2: extended sample with additional text and long paragraphs.",
	"Each line is an independent block, editable or encrypted.",
	"Page 3: a third section with selective visibility.",
	"End of document.",
}

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// Initialize the in-memory stores and seed the demo session.
	docs := repository.NewDocumentStore(options.PageSize)
	for _, line := range seedText {
		docs.Append(line)
	}

	registry := repository.NewShareRegistry(options.Owner)
	registry.AddUser(models.User{Name: "Ana Torres", Tier: models.TierRestricted, Color: "#16a34a"})
	registry.AddUser(models.User{Name: "Luis Pérez", Tier: models.TierRestricted, Color: "#9333ea"})

	audit := repository.NewAuditLog(zapLogger)
	audit.Append("[info] system started.")

	contacts := repository.NewContactDirectory(repository.DefaultContacts())

	// Initialize business-logic services.
	resolver := service.NewAccessResolver(docs, registry)
	scheduler := service.NewTimerScheduler(zapLogger)
	defer scheduler.Stop()
	workflow := service.NewShareWorkflow(docs, contacts, audit, scheduler, zapLogger)

	// Create HTTP handlers.
	documentHandler := &http.DocumentHandler{Docs: docs, Access: resolver}
	shareHandler := &http.ShareHandler{Registry: registry, Audit: audit}
	artifactHandler := &http.ArtifactHandler{Workflow: workflow}
	logsHandler := &http.LogsHandler{Audit: audit, Logger: zapLogger}
	contactsHandler := &http.ContactsHandler{Directory: contacts}
	accessHandler := &http.AccessAlertHandler{Audit: audit}

	// Build the router with middleware and routes.
	router := http.NewRouter(
		documentHandler,
		shareHandler,
		artifactHandler,
		logsHandler,
		contactsHandler,
		accessHandler,
		options.Owner,
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
