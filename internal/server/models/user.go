// Package models defines the records persisted by the server and returned
// by the REST API.
package models

import "time"

// User is an account. Salt and PasswordHash never leave the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Salt         []byte    `json:"-"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}
