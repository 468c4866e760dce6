// Package models contains the domain structures shared by the storage
// backends and the service layer, plus the request types used to accept
// and validate data from JSON requests before conversion.
package models

import "time"

// User represents a registered account. The ID is a v4 UUID assigned at
// creation time and is stable across storage backends.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name,omitempty"`
	Tier         string    `json:"subscription_tier"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserUpdate carries a partial user update. Nil fields are left untouched.
type UserUpdate struct {
	Name       *string `json:"name,omitempty"`
	Tier       *string `json:"subscription_tier,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	IsVerified *bool   `json:"is_verified,omitempty"`
}

// DummyRegister receives signup data from a JSON request before the
// password is hashed and the User is materialized.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=100"`
}
