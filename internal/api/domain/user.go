package domain

import (
	"net/mail"
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // argon2 encoded, never serialized
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRef is the projection used when a task's assignee is populated.
type UserRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// UserPatch is the writable subset of a user. Nil fields are left untouched.
// Password carries the clear text from the request; services replace it with
// PasswordHash before it reaches the store.
type UserPatch struct {
	Email        *string `json:"email,omitempty"`
	Name         *string `json:"name,omitempty"`
	Password     *string `json:"password,omitempty"`
	Roles        *[]Role `json:"roles,omitempty"`
	PasswordHash *string `json:"-"`
}

// Normalize trims the user supplied strings and lowercases the email.
func (p *UserPatch) Normalize() {
	if p.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*p.Email))
		p.Email = &e
	}
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		p.Name = &n
	}
}

// ValidateCreate checks a patch that is about to become a new user.
func (p UserPatch) ValidateCreate() error {
	if p.Email == nil || *p.Email == "" {
		return required("email")
	}
	if p.Name == nil || *p.Name == "" {
		return required("name")
	}
	if p.Password == nil || *p.Password == "" {
		return required("password")
	}
	return p.ValidateUpdate()
}

// ValidateUpdate checks only the fields that are set.
func (p UserPatch) ValidateUpdate() error {
	if p.Email != nil {
		if _, err := mail.ParseAddress(*p.Email); err != nil {
			return &ValidationError{Field: "email", Message: "is not a valid address"}
		}
	}
	if p.Name != nil && *p.Name == "" {
		return required("name")
	}
	if p.Password != nil && len(*p.Password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "is too short"}
	}
	if p.Roles != nil {
		for _, r := range *p.Roles {
			if !r.Valid() {
				return &ValidationError{Field: "roles", Message: "unknown role " + string(r)}
			}
		}
	}
	return nil
}

const MinPasswordLength = 6
