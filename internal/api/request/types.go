package request

import "github.com/openarcade/scorekeep/internal/model"

// RegisterRequest is the request body for creating a user
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest is the request body for patching a user. Only the fields
// listed here can be changed; the username is immutable and therefore has no
// field at all. Nil pointers leave the stored value untouched.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Password    *string `json:"password"`
	Admin       *bool   `json:"admin"`
}

// Apply merges the patch onto a copy of the stored user. The admin flag is
// honored only when the requester is already an admin; for anyone else the
// stored value is preserved regardless of the payload. Password changes are
// applied by the caller, which owns the hashing.
func (r UpdateUserRequest) Apply(stored model.User, requesterAdmin bool) model.User {
	updated := stored
	if r.DisplayName != nil {
		updated.DisplayName = *r.DisplayName
	}
	if r.Admin != nil && requesterAdmin {
		updated.Admin = *r.Admin
	}
	return updated
}

// UpdateGameRequest is the request body for patching a game. The game id and
// owner are immutable and have no fields here.
type UpdateGameRequest struct {
	Score     *int  `json:"score"`
	Completed *bool `json:"completed"`
}

// Apply merges the patch onto a copy of the stored game.
func (r UpdateGameRequest) Apply(stored model.Game) model.Game {
	updated := stored
	if r.Score != nil {
		updated.Score = *r.Score
	}
	if r.Completed != nil {
		updated.Completed = *r.Completed
	}
	return updated
}
