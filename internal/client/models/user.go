// Package models defines client-side data models used by the country explorer.
package models

// User is the signed-in account. ID is regenerated on every login and is not
// a stable identity; Username is.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
