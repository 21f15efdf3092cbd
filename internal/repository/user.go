package repository

import (
	"context"

	"github.com/ErlanBelekov/personen-api/internal/domain"
)

type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no row matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByCredentials returns the user only if password matches the stored
	// hash. Absence and mismatch both yield domain.ErrUserNotFound so callers
	// cannot tell them apart.
	FindByCredentials(ctx context.Context, username, password string) (*domain.User, error)

	// Insert fails with domain.ErrUsernameTaken on a duplicate username.
	Insert(ctx context.Context, username, passwordHash string) error
}
