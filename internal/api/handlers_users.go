package api

import (
	"errors"
	"net/http"

	"github.com/huangsam/codecritic/internal/auth"
	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/logging"
	"github.com/huangsam/codecritic/schema"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := s.decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.accounts.Register(r.Context(), in)
	if err != nil {
		s.writeAccountError(w, r, "Registration failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if err := s.decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.accounts.Login(r.Context(), in)
	if err != nil {
		s.writeAccountError(w, r, "Login failed", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	user, err := s.accounts.Profile(r.Context(), claims)
	if errors.Is(err, contract.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.writeAccountError(w, r, "Profile fetch failed", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.accounts.ListUsers(r.Context())
	if err != nil {
		s.writeAccountError(w, r, "Failed to list users", err)
		return
	}
	if users == nil {
		users = []schema.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) writeAccountError(w http.ResponseWriter, r *http.Request, prefix string, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUserExists):
		writeError(w, http.StatusConflict, "Username or email already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, contract.ErrStoreDisabled):
		writeError(w, http.StatusServiceUnavailable, "User accounts require a persistence backend")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg(prefix)
		writeError(w, http.StatusInternalServerError, prefix)
	}
}
