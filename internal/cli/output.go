package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case []User:
		o.printUsers(v)
	case TokenResult:
		o.printTokenResult(v)
	case Game:
		o.printGame(v)
	case []Game:
		o.printGames(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	Admin       bool      `json:"admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// TokenResult is the login response
type TokenResult struct {
	Token string `json:"token"`
}

// Game response type
type Game struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	Score     int       `json:"score"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	name := u.DisplayName
	if name == "" {
		name = u.Username
	}
	adminStr := "no"
	if u.Admin {
		adminStr = "yes"
	}
	fmt.Printf("User: %s (#%d)\n", name, u.ID)
	fmt.Printf("Username: %s\n", u.Username)
	fmt.Printf("Admin: %s\n", adminStr)
}

func (o *Output) printUsers(users []User) {
	fmt.Printf("Users (%d):\n", len(users))
	for _, u := range users {
		adminStr := ""
		if u.Admin {
			adminStr = " [admin]"
		}
		fmt.Printf("  #%d %s%s\n", u.ID, u.Username, adminStr)
	}
}

func (o *Output) printTokenResult(t TokenResult) {
	fmt.Printf("Token: %s\n", t.Token)
}

func (o *Output) printGame(g Game) {
	status := "in progress"
	if g.Completed {
		status = "completed"
	}
	fmt.Printf("Game: #%d\n", g.ID)
	fmt.Printf("Owner: #%d\n", g.UserID)
	fmt.Printf("Score: %d\n", g.Score)
	fmt.Printf("Status: %s\n", status)
}

func (o *Output) printGames(games []Game) {
	fmt.Printf("Games (%d):\n", len(games))
	for _, g := range games {
		status := ""
		if g.Completed {
			status = " [completed]"
		}
		fmt.Printf("  #%d owner=%d score=%d%s\n", g.ID, g.UserID, g.Score, status)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
