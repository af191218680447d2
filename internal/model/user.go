// Package model defines domain entities for the application.
package model

import (
	"slices"
	"time"
)

// User represents an account that owns boards.
type User struct {
	ID           string    `json:"_id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"` // Never serialize
	PublicName   string    `json:"publicName"`
	Userpic      string    `json:"userpic"`
	Boards       []string  `json:"boards"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public view of a user returned by auth endpoints.
type Profile struct {
	ID         string   `json:"_id"`
	PublicName string   `json:"publicName"`
	Boards     []string `json:"boards"`
	Userpic    string   `json:"userpic"`
}

// ToProfile converts a user to its public representation.
// Boards is always a non-nil slice so it encodes as [] rather than null.
func (u *User) ToProfile() Profile {
	boards := slices.Clone(u.Boards)
	if boards == nil {
		boards = []string{}
	}
	return Profile{
		ID:         u.ID,
		PublicName: u.PublicName,
		Boards:     boards,
		Userpic:    u.Userpic,
	}
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.Boards = slices.Clone(u.Boards)
	return &c
}

