// Package models defines client-side data models for the Ace in April
// service: users, daily questions, and submissions.
package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRecord is returned when a remote or stored payload does not
// match the expected record shape. Decoding fails closed: a record with an
// unknown role or category is rejected rather than passed through.
var ErrInvalidRecord = errors.New("invalid record")

// Role classifies a user's privileges.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Category selects which daily question track a user is assigned to.
type Category string

const (
	CategoryDSA     Category = "dsa"
	CategoryProject Category = "project"
)

func (c Category) Valid() bool {
	return c == CategoryDSA || c == CategoryProject
}

// User is the profile kept in application state and mirrored to the session
// store. It deliberately carries no password material; credential hashes
// never leave the record store layer.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Validate checks that the profile is complete enough for access decisions.
// Role and category must both be populated with known values.
func (u *User) Validate() error {
	if u.ID == "" || u.Username == "" {
		return fmt.Errorf("%w: user missing id or username", ErrInvalidRecord)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidRecord, u.Role)
	}
	if !u.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRecord, u.Category)
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credentials is the transient login input pair. The password lives only on
// the stack between prompt and verification; it is never persisted.
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required,min=8"`
}

// NewUserInput is the admin-side payload for creating a user account.
type NewUserInput struct {
	Username string   `validate:"required"`
	Password string   `validate:"required,min=8"`
	Role     Role     `validate:"required,oneof=user admin"`
	Category Category `validate:"required,oneof=dsa project"`
}
