package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/openarcade/scorekeep/internal/api/middleware"
	"github.com/openarcade/scorekeep/internal/api/request"
	"github.com/openarcade/scorekeep/internal/api/response"
	"github.com/openarcade/scorekeep/internal/services/auth"
	"github.com/openarcade/scorekeep/internal/services/repo"
)

// UserHandler handles user-related endpoints
type UserHandler struct {
	authService *auth.Service
	repo        *repo.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.Service, repository *repo.Service) *UserHandler {
	return &UserHandler{
		authService: authService,
		repo:        repository,
	}
}

// Register handles POST /users. Registration is public: no session is
// required and the admin flag always starts false. Unknown payload fields
// are ignored rather than rejected so clients can send richer profiles.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.UserFromModel(user))
}

// List handles GET /users (admin only)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.MustGetUser(r.Context())
	if !requester.Admin {
		WriteError(w, NewForbiddenError())
		return
	}

	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UsersFromModel(users))
}

// Get handles GET /users/{id}. A user may fetch themselves; admins may fetch
// anyone.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.MustGetUser(r.Context())

	id, err := userID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if requester.ID != id && !requester.Admin {
		WriteError(w, NewForbiddenError())
		return
	}

	user, err := h.repo.GetUser(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// Update handles PATCH /users/{id}. The patch is an allow-list merge: the
// username cannot be changed at all, and the admin flag is only honored when
// the requester is already an admin.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	requester := middleware.MustGetUser(r.Context())

	id, err := userID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if requester.ID != id && !requester.Admin {
		WriteError(w, NewForbiddenError())
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req request.UpdateUserRequest
	if err := dec.Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	stored, err := h.repo.GetUser(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	updated := req.Apply(*stored, requester.Admin)
	if req.Password != nil {
		if *req.Password == "" {
			WriteError(w, NewInvalidRequestError("password must not be empty"))
			return
		}
		hash, err := repo.HashPassword(*req.Password)
		if err != nil {
			WriteError(w, err)
			return
		}
		updated.PasswordHash = hash
	}

	if err := h.repo.UpdateUser(r.Context(), updated); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(&updated))
}

// userID parses the {id} path variable
func userID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, NewInvalidRequestError("invalid user id")
	}
	return id, nil
}
