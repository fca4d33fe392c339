package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openarcade/scorekeep/internal/api/handler"
	"github.com/openarcade/scorekeep/internal/api/middleware"
	"github.com/openarcade/scorekeep/internal/services/auth"
	"github.com/openarcade/scorekeep/internal/services/repo"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Repo        *repo.Service

	// StaticDir serves the front-end bundle when non-empty
	StaticDir string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.AuthService)
	userHandler := handler.NewUserHandler(cfg.AuthService, cfg.Repo)
	gameHandler := handler.NewGameHandler(cfg.Repo)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Session routes (login is public; logout checks its own token)
	r.HandleFunc("/login", sessionHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", sessionHandler.Logout).Methods(http.MethodPost)

	// Registration is public
	r.HandleFunc("/users", userHandler.Register).Methods(http.MethodPost)

	// Protected user routes
	users := r.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware)
	users.HandleFunc("", userHandler.List).Methods(http.MethodGet)
	users.HandleFunc("/{id}", userHandler.Get).Methods(http.MethodGet)
	users.HandleFunc("/{id}", userHandler.Update).Methods(http.MethodPatch)

	// Game routes (all require auth)
	games := r.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Update).Methods(http.MethodPatch)

	// Health check endpoint (no auth)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Static front-end bundle
	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	}

	// CORS wraps the whole router rather than going through Use: mux only
	// runs Use middleware on a route+method match, which would skip OPTIONS
	// preflights entirely.
	return middleware.CORS(r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
