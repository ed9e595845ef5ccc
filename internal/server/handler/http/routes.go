package http

import (
	"net/http"

	"github.com/vaultigo/vaultigo/internal/middleware"
	"github.com/vaultigo/vaultigo/internal/scan"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the record store's HTTP handler. Every route
// requires the anonymous identity header; the breach proxy is
// additionally rate-limited per identity.
//
// Routes:
//
//	PUT    /api/keys           → keys.Save
//	GET    /api/keys           → keys.Get
//	POST   /api/entries        → entries.Create
//	GET    /api/entries        → entries.List
//	PUT    /api/entries/{id}   → entries.Update
//	DELETE /api/entries/{id}   → entries.Delete
//	GET    /api/breach/email   → breach.Check (rate-limited)
//	POST   /api/phishing       → phishing.Record
//	GET    /api/phishing       → phishing.List
func NewRouter(
	keys *KeysHandler,
	entries *EntriesHandler,
	breach *EmailBreachHandler,
	phishing *PhishingHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Every route is scoped to an anonymous identity
	r.Use(middleware.IdentityAuth)

	// The burst must cover one full scan batch: the client issues up to
	// scan.BatchSize email lookups back to back before its inter-batch
	// delay.
	limiter := middleware.NewIdentityLimiter(1, scan.BatchSize)

	r.Route("/api", func(r chi.Router) {
		r.Put("/keys", keys.Save)
		r.Get("/keys", keys.Get)

		r.Post("/entries", entries.Create)
		r.Get("/entries", entries.List)
		r.Put("/entries/{id}", entries.Update)
		r.Delete("/entries/{id}", entries.Delete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(limiter))
			r.Get("/breach/email", breach.Check)
		})

		r.Post("/phishing", phishing.Record)
		r.Get("/phishing", phishing.List)
	})

	return r
}
