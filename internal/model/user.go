package model

import "time"

// Identity is what the identity provider resolves a bearer token to.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// User is the shape returned to the storefront by the auth endpoints.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is a profile row as listed on the admin users page.
type UserSummary struct {
	Profile
	OrderCount int `json:"orderCount"`
}
