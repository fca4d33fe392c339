package model

// Document is the aggregate of all durable state. It is persisted as a
// single unit: every committed write replaces the previous document in full,
// so readers never observe a partially applied mutation.
type Document struct {
	Users []User `json:"users"`
	Games []Game `json:"games"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Users: []User{},
		Games: []Game{},
	}
}

// Clone returns a deep copy of the document. Mutations are staged on a clone
// and the clone only becomes visible once it has been durably persisted.
func (d *Document) Clone() *Document {
	users := make([]User, len(d.Users))
	copy(users, d.Users)
	games := make([]Game, len(d.Games))
	copy(games, d.Games)
	return &Document{Users: users, Games: games}
}

// UserByID returns the user with the given id, or nil.
func (d *Document) UserByID(id int) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// UserByUsername returns the user with the given username, or nil.
func (d *Document) UserByUsername(username string) *User {
	for i := range d.Users {
		if d.Users[i].Username == username {
			return &d.Users[i]
		}
	}
	return nil
}

// GameByID returns the game with the given id, or nil.
func (d *Document) GameByID(id int) *Game {
	for i := range d.Games {
		if d.Games[i].ID == id {
			return &d.Games[i]
		}
	}
	return nil
}
