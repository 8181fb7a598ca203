package models

import "time"

// Session is a refresh token. Access tokens are short-lived JWTs; the
// refresh token lives here so it can be revoked on logout or rotation.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
