package response

import (
	"time"

	"github.com/openarcade/scorekeep/internal/model"
)

// User represents a user in API responses. The password hash is deliberately
// absent: credentials are stored, never served.
type User struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	Admin       bool      `json:"admin"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:          u.ID,
		Username:    u.Username,
		Admin:       u.Admin,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// UsersFromModel converts a slice of users
func UsersFromModel(users []model.User) []User {
	out := make([]User, len(users))
	for i := range users {
		out[i] = UserFromModel(&users[i])
	}
	return out
}

// Game represents a game in API responses
type Game struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	Score     int       `json:"score"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:        g.ID,
		UserID:    g.UserID,
		Score:     g.Score,
		Completed: g.Completed,
		CreatedAt: g.CreatedAt,
	}
}

// GamesFromModel converts a slice of games
func GamesFromModel(games []model.Game) []Game {
	out := make([]Game, len(games))
	for i := range games {
		out[i] = GameFromModel(&games[i])
	}
	return out
}

// TokenResponse is the response for a successful login
type TokenResponse struct {
	Token string `json:"token"`
}
