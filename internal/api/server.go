// Package api serves a generated dataset read-only over HTTP for the
// draft-board front end.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options configures the router.
type Options struct {
	// Dir holds the players and summary files.
	Dir          string
	PlayersFile  string
	SummaryFile  string
	CORSOrigins  []string
	RequestLimit time.Duration
}

// Handler answers dataset requests. Files are re-read on every request so
// a regeneration is visible without a restart.
type Handler struct {
	opts Options
}

// NewRouter builds the chi router with middleware and routes.
func NewRouter(opts Options) http.Handler {
	if opts.RequestLimit == 0 {
		opts.RequestLimit = 30 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	h := &Handler{opts: opts}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(opts.RequestLimit))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)

	r.Route("/data", func(r chi.Router) {
		r.Get("/"+opts.PlayersFile, h.PlayersFile)
		r.Get("/"+opts.SummaryFile, h.SummaryFile)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/players", h.ListPlayers)
		r.Get("/players/{playerID}", h.GetPlayer)
		r.Get("/summary", h.GetSummary)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}
