package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/openarcade/scorekeep/internal/api/middleware"
	"github.com/openarcade/scorekeep/internal/api/request"
	"github.com/openarcade/scorekeep/internal/api/response"
	"github.com/openarcade/scorekeep/internal/model"
	"github.com/openarcade/scorekeep/internal/services/repo"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	repo *repo.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(repository *repo.Service) *GameHandler {
	return &GameHandler{
		repo: repository,
	}
}

// List handles GET /games. Any authenticated user sees the full list; this
// is the leaderboard surface.
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.repo.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(games))
}

// Create handles POST /games. The authenticated user becomes the owner.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	game, err := h.repo.CreateGame(r.Context(), user)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(game))
}

// Get handles GET /games/{id}. Unknown ids are reported before ownership is
// checked; only the owner may read a game (no admin override).
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	game, err := h.fetchOwned(r, user)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Update handles PATCH /games/{id}. The merge preserves the id and owner
// structurally; only score and completed can change.
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	game, err := h.fetchOwned(r, user)
	if err != nil {
		WriteError(w, err)
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req request.UpdateGameRequest
	if err := dec.Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	updated := req.Apply(*game)
	if err := h.repo.UpdateGame(r.Context(), updated); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(&updated))
}

// fetchOwned loads the game from the path id and enforces strict ownership.
func (h *GameHandler) fetchOwned(r *http.Request, user *model.User) (*model.Game, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return nil, NewInvalidRequestError("invalid game id")
	}

	game, err := h.repo.GetGame(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if game.UserID != user.ID {
		return nil, NewForbiddenError()
	}
	return game, nil
}
