// Package httpapi exposes the server's operations over HTTP. Handlers stay
// thin: decode the request, call a service, classify the error. All file
// operations sit behind the session guard; shared links are the only
// unauthenticated way to reach stored content.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"homecloud/internal/logging"
	"homecloud/internal/server/models"
	"homecloud/internal/server/sessions"
	"homecloud/internal/server/storage"
)

// UserService registers accounts and opens sessions.
type UserService interface {
	Register(ctx context.Context, email, displayName, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (uuid.UUID, error)
}

// UploadService implements the two-phase upload protocol.
type UploadService interface {
	Reserve(ctx context.Context, user *models.User, rawPath string) (uuid.UUID, error)
	Consume(ctx context.Context, token uuid.UUID, user *models.User, src io.Reader) error
}

// FileService covers the sandboxed per-user file operations.
type FileService interface {
	List(ctx context.Context, user *models.User, rawPath string) ([]models.Element, error)
	MakeDirectory(ctx context.Context, user *models.User, rawPath string) error
	Open(ctx context.Context, user *models.User, rawPath string) (*storage.Source, error)
}

// ShareService creates and resolves share links.
type ShareService interface {
	Create(ctx context.Context, user *models.User, rawPath string) (*models.Share, error)
	Open(ctx context.Context, link string) (*storage.Source, error)
}

type Server struct {
	users   UserService
	uploads UploadService
	files   FileService
	shares  ShareService
	guard   *sessions.Guard

	signingKey       []byte
	sessionRetention time.Duration
	logger           logging.Logger

	httpServer *http.Server
}

func NewServer(addr string, users UserService, uploads UploadService, files FileService,
	shares ShareService, guard *sessions.Guard, signingKey []byte,
	sessionRetention time.Duration, logger logging.Logger) *Server {

	s := &Server{
		users:            users,
		uploads:          uploads,
		files:            files,
		shares:           shares,
		guard:            guard,
		signingKey:       signingKey,
		sessionRetention: sessionRetention,
		logger:           logger.With("module", "httpapi"),
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Routes assembles the router. Exposed so tests can mount the full handler
// tree on httptest servers.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/api/users/register", s.handleRegister)
	r.Post("/api/users/login", s.handleLogin)
	r.Get("/shared/{link}", s.handleShared)

	r.Group(func(r chi.Router) {
		r.Use(s.guard.Middleware(s.writeError))

		r.Post("/api/files/upload/new", s.handleUploadNew)
		r.Post("/api/files/upload/{token}", s.handleUploadSubmit)
		r.Post("/api/files/ls", s.handleList)
		r.Post("/api/files/mkdir", s.handleMkdir)
		r.Post("/api/files/download", s.handleDownload)
		r.Post("/api/files/share", s.handleShare)
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.httpServer.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
