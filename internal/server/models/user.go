// Package models defines the persistent entities of the service.
package models

import "time"

// User is an identity record. PasswordHash is never serialized.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
