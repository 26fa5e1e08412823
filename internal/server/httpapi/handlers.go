package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"homecloud/internal/server/models"
	"homecloud/internal/server/sessions"
	"homecloud/internal/server/storage"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type registerResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pathRequest struct {
	Path string `json:"path"`
}

type uploadNewResponse struct {
	UploadID string `json:"upload_id"`
}

func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body is not valid JSON"})
		return
	}
	if req.Email == "" || req.Password == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, registerResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body is not valid JSON"})
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessions.CookieName,
		Value:    sessions.SignCookieValue(s.signingKey, token),
		Path:     "/",
		MaxAge:   int(s.sessionRetention.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadNew(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body is not valid JSON"})
		return
	}

	token, err := s.uploads.Reserve(r.Context(), sessions.UserFromContext(r.Context()), req.Path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, uploadNewResponse{UploadID: token.String()})
}

func (s *Server) handleUploadSubmit(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed upload token"})
		return
	}

	err = s.uploads.Consume(r.Context(), token, sessions.UserFromContext(r.Context()), r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body is not valid JSON"})
		return
	}

	elements, err := s.files.List(r.Context(), sessions.UserFromContext(r.Context()), req.Path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if elements == nil {
		elements = []models.Element{}
	}
	s.writeJSON(w, http.StatusOK, elements)
}

func (s *Server) handleMkdir(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body is not valid JSON"})
		return
	}

	if err := s.files.MakeDirectory(r.Context(), sessions.UserFromContext(r.Context()), req.Path); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body is not valid JSON"})
		return
	}

	src, err := s.files.Open(r.Context(), sessions.UserFromContext(r.Context()), req.Path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.streamSource(w, r, src)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body is not valid JSON"})
		return
	}

	share, err := s.shares.Create(r.Context(), sessions.UserFromContext(r.Context()), req.Path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, share)
}

func (s *Server) handleShared(w http.ResponseWriter, r *http.Request) {
	src, err := s.shares.Open(r.Context(), chi.URLParam(r, "link"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.streamSource(w, r, src)
}

// streamSource writes the download. Directories go out as ZIP archives,
// files verbatim. A streaming failure after the header is written cannot be
// reported to the client anymore; it is logged and the connection dropped.
func (s *Server) streamSource(w http.ResponseWriter, r *http.Request, src *storage.Source) {
	if src.IsDir {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", src.Name+".zip"))
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", src.Name))
	}

	if err := src.Stream(w); err != nil {
		s.logger.Error(r.Context(), "streaming download", "path", src.Path, "error", err.Error())
	}
}
