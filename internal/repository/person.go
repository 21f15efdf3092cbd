package repository

import (
	"context"

	"github.com/ErlanBelekov/personen-api/internal/domain"
)

// PersonRepository runs exactly one statement per call. Lookups by id return
// domain.ErrPersonNotFound when no row matches.
type PersonRepository interface {
	Create(ctx context.Context, fields domain.PersonFields) (int64, error)
	// List returns rows in database default order.
	List(ctx context.Context) ([]*domain.Person, error)
	GetByID(ctx context.Context, id int64) (*domain.Person, error)
	// Update replaces all fields; nil optional fields become NULL.
	Update(ctx context.Context, id int64, fields domain.PersonFields) (*domain.Person, error)
	Delete(ctx context.Context, id int64) error
}
