package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/personen-api/internal/domain"
	"github.com/ErlanBelekov/personen-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer is satisfied by *token.Service.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

type AuthUsecase struct {
	users    repository.UserRepository
	tokens   TokenIssuer
	hashCost int
}

func NewAuthUsecase(users repository.UserRepository, tokens TokenIssuer) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (u *AuthUsecase) WithHashCost(cost int) *AuthUsecase {
	u.hashCost = cost
	return u
}

// Register stores a new user and returns a token for it. An existing username
// yields domain.ErrUsernameTaken and leaves the stored user untouched.
func (u *AuthUsecase) Register(ctx context.Context, username, password string) (string, error) {
	_, err := u.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return "", domain.ErrUsernameTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", fmt.Errorf("find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}

	if err := u.users.Insert(ctx, username, string(hash)); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return "", domain.ErrUsernameTaken
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	return u.issue(username)
}

// Login checks the credentials and returns a fresh token.
func (u *AuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := u.users.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find credentials: %w", err)
	}

	return u.issue(user.Username)
}

func (u *AuthUsecase) issue(username string) (string, error) {
	signed, err := u.tokens.Issue(username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}
