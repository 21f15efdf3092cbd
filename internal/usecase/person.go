package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/personen-api/internal/domain"
	"github.com/ErlanBelekov/personen-api/internal/repository"
)

type PersonUsecase struct {
	repo repository.PersonRepository
}

func NewPersonUsecase(repo repository.PersonRepository) *PersonUsecase {
	return &PersonUsecase{repo: repo}
}

func (u *PersonUsecase) Create(ctx context.Context, fields domain.PersonFields) (int64, error) {
	id, err := u.repo.Create(ctx, fields)
	if err != nil {
		return 0, fmt.Errorf("create person: %w", err)
	}
	return id, nil
}

func (u *PersonUsecase) List(ctx context.Context) ([]*domain.Person, error) {
	persons, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return persons, nil
}

func (u *PersonUsecase) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

func (u *PersonUsecase) Update(ctx context.Context, id int64, fields domain.PersonFields) (*domain.Person, error) {
	p, err := u.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	return p, nil
}

func (u *PersonUsecase) Delete(ctx context.Context, id int64) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}
