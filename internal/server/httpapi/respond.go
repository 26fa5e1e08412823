package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"homecloud/internal/common"
	"homecloud/internal/server/apperr"
	"homecloud/internal/server/archive"
	"homecloud/internal/server/sandbox"
	"homecloud/internal/server/uploads"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "encoding response", "error", err.Error())
	}
}

// classify maps an operation error onto the closed client-facing taxonomy
// plus an HTTP status. Every sentinel crossing the service boundary is
// listed here; anything unlisted is a resource error and its text stays out
// of the response.
func classify(err error) (int, *apperr.Error) {
	switch {
	case errors.Is(err, common.ErrorUnauthenticated):
		return http.StatusUnauthorized, apperr.Authorization("authentication required", err)
	case errors.Is(err, uploads.ErrForeignUpload):
		return http.StatusForbidden, apperr.Authorization("this upload belongs to a different user", err)
	case errors.Is(err, sandbox.ErrAbsolutePath):
		return http.StatusBadRequest, apperr.Validation("path must be relative", err)
	case errors.Is(err, sandbox.ErrPathTraversal):
		return http.StatusBadRequest, apperr.Validation("path must stay inside your storage", err)
	case errors.Is(err, uploads.ErrTargetIsDirectory):
		return http.StatusBadRequest, apperr.Validation("a directory already exists at this path", err)
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, apperr.Validation("already exists", err)
	case errors.Is(err, uploads.ErrUnknownUpload):
		return http.StatusNotFound, apperr.NotFound("unknown upload token", err)
	case errors.Is(err, archive.ErrNotADirectory):
		return http.StatusNotFound, apperr.NotFound("no such directory", err)
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, apperr.NotFound("no such file or directory", err)
	default:
		return http.StatusInternalServerError, apperr.Resource(err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := classify(err)
	if apiErr.Kind == apperr.KindResource {
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	}
	s.writeJSON(w, status, errorResponse{Error: apiErr.Message})
}
