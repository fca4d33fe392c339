package handler

import (
	"encoding/json"
	"net/http"

	"github.com/openarcade/scorekeep/internal/api/middleware"
	"github.com/openarcade/scorekeep/internal/api/request"
	"github.com/openarcade/scorekeep/internal/api/response"
	"github.com/openarcade/scorekeep/internal/services/auth"
)

// SessionHandler handles login and logout
type SessionHandler struct {
	authService *auth.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authService *auth.Service) *SessionHandler {
	return &SessionHandler{
		authService: authService,
	}
}

// Login handles POST /login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TokenResponse{Token: session.Token})
}

// Logout handles POST /logout. No session resolution is needed: the token
// only has to exist in the registry to be destroyed.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r)
	if token == "" || !h.authService.DestroySession(token) {
		WriteError(w, NewUnauthenticatedError())
		return
	}

	response.JSON(w, http.StatusOK, nil)
}
