package model

import "time"

// Game is a single play record owned by one user. IDs are assigned
// sequentially starting at 1.
type Game struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	Score     int       `json:"score"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}
