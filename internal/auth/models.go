package auth

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// SafeUser is what gets persisted as the session: no credentials.
type SafeUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Safe() SafeUser {
	return SafeUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
