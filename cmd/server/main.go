// Package main initializes and starts the Vaultigo record store:
// configuration, logging, database, repositories, services, handlers,
// and the HTTP server.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/vaultigo/vaultigo/internal/config"
	"github.com/vaultigo/vaultigo/internal/db"
	"github.com/vaultigo/vaultigo/internal/logger"
	"github.com/vaultigo/vaultigo/internal/repository"
	"github.com/vaultigo/vaultigo/internal/server/handler/http"
	"github.com/vaultigo/vaultigo/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Prune old phishing scan history in the background.
	db.StartScanHistoryCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		90*24*time.Hour, // retention: 90 days
		zapLogger,
	)

	// Initialize repositories.
	keyRepo := repository.NewPostgresKeyRepository(postgresDB)
	entryRepo := repository.NewPostgresEntryRepository(postgresDB)
	phishingRepo := repository.NewPostgresPhishingRepository(postgresDB)

	// Initialize business-logic services.
	keyService := service.NewKeyService(keyRepo)
	entryService := service.NewEntryService(entryRepo)
	phishingService := service.NewPhishingService(phishingRepo)

	// Create HTTP handlers.
	keysHandler := &http.KeysHandler{KeyService: keyService}
	entriesHandler := &http.EntriesHandler{EntryService: entryService}
	breachHandler := http.NewEmailBreachHandler(options.HIBPAPIURL, options.HIBPAPIKey)
	phishingHandler := &http.PhishingHandler{PhishingService: phishingService}

	// Build the router with middleware and routes.
	router := http.NewRouter(keysHandler, entriesHandler, breachHandler, phishingHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting server", zap.String("addr", options.Port))
	if options.CertFile != "" && options.KeyFile != "" {
		err = server.ListenAndServeTLS(options.CertFile, options.KeyFile)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
