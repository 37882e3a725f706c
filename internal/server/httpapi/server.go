// Package httpapi exposes the REST API: route wiring, session middleware,
// CORS, and the uniform JSON envelope.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/pkalnins/gallery/internal/logging"
	"github.com/pkalnins/gallery/internal/server/config"
	"github.com/pkalnins/gallery/internal/server/services"
)

type Server struct {
	address         string
	logger          logging.Logger
	users           *services.UserService
	posts           *services.PostService
	jwtSecret       []byte
	sessionValidity time.Duration
	allowedOrigins  []string
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, ps *services.PostService) *Server {
	return &Server{
		address:         cfg.EndpointAddr,
		logger:          l.With("module", "http_server"),
		users:           us,
		posts:           ps,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		allowedOrigins:  cfg.CORSAllowedOrigins,
	}
}

// Handler assembles the route table and wraps it with the CORS allow-list.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/register", s.register)
	mux.HandleFunc("POST /api/v1/auth/login", s.login)
	mux.HandleFunc("GET /api/v1/auth/logout", s.withSession(s.logout))
	mux.HandleFunc("GET /api/v1/me", s.withSession(s.me))
	mux.HandleFunc("POST /api/v1/post/create", s.withSession(s.createPost))
	mux.HandleFunc("DELETE /api/v1/post/{id}", s.withSession(s.deletePost))
	mux.HandleFunc("GET /api/v1/posts/search", s.withSession(s.searchPosts))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "server forced to shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
