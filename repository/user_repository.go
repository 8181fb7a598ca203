// Package repository is the data access layer. Each file declares one
// interface; the sqlite_*.go files implement them on database.TxQuerier so
// the same repository works inside and outside a transaction.
//
// Lookups that find nothing return pkg.ErrNotFound.
package repository

import (
	"context"

	"github.com/foodie-app/foodie/models"
)

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update writes display name and language.
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	// SetGitHubToken stores an encrypted token; nil clears it.
	SetGitHubToken(ctx context.Context, userID string, encrypted *string) error
	Delete(ctx context.Context, id string) error
}
