package models

import "time"

// User represents a user in the system
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"` // Never serialize password
	CreatedAt    time.Time `json:"created_at"`
}
