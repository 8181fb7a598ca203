// Package models holds the domain types shared by every layer, and the
// request bodies the API accepts together with their Validate methods.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// User is an account. The GitHub token is stored encrypted and never
// serialized; HasGitHubToken tells the client whether one is saved.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	PasswordHash   string    `json:"-"`
	Language       string    `json:"language"`
	GitHubTokenEnc *string   `json:"-"`
	HasGitHubToken bool      `json:"has_github_token"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if n > 72 {
		return fmt.Errorf("password must be at most 72 characters")
	}
	return nil
}

// CreateUserRequest is the registration body.
type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
}

// Validate lowercases the email and checks the form rules.
func (r *CreateUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if err := validatePassword(r.Password); err != nil {
		return err
	}

	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if utf8.RuneCountInString(r.DisplayName) > 50 {
		return fmt.Errorf("display name must be at most 50 characters")
	}
	if r.DisplayName == "" {
		r.DisplayName, _, _ = strings.Cut(r.Email, "@")
	}
	return nil
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// UpdateUserRequest is a partial profile update; nil fields are untouched.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Language    *string `json:"language"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.DisplayName != nil {
		name := strings.TrimSpace(*r.DisplayName)
		n := utf8.RuneCountInString(name)
		if n == 0 || n > 50 {
			return fmt.Errorf("display name must be between 1 and 50 characters")
		}
		r.DisplayName = &name
	}
	if r.Language != nil {
		lang := strings.ToLower(strings.TrimSpace(*r.Language))
		if lang == "" {
			return fmt.Errorf("language cannot be empty")
		}
		r.Language = &lang
	}
	return nil
}

// ChangePasswordRequest is sent by a logged-in user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return fmt.Errorf("current password is required")
	}
	if err := validatePassword(r.NewPassword); err != nil {
		return err
	}
	if r.CurrentPassword == r.NewPassword {
		return fmt.Errorf("new password must differ from the current one")
	}
	return nil
}

// GitHubTokenRequest saves (or, when empty, clears) the user's token.
type GitHubTokenRequest struct {
	Token string `json:"token"`
}

func (r *GitHubTokenRequest) Validate() error {
	r.Token = strings.TrimSpace(r.Token)
	if len(r.Token) > 255 {
		return fmt.Errorf("token is too long")
	}
	return nil
}
