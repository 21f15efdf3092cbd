package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/personen-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const personColumns = `id, vorname, nachname, plz, strasse, ort, telefonnummer, email`

type PersonRepository struct {
	pool *pgxpool.Pool
}

func NewPersonRepository(pool *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

func (r *PersonRepository) Create(ctx context.Context, f domain.PersonFields) (int64, error) {
	query := `
		INSERT INTO personen (vorname, nachname, plz, strasse, ort, telefonnummer, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		f.Vorname, f.Nachname, f.PLZ, f.Strasse, f.Ort, f.Telefonnummer, f.Email,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert person: %w", err)
	}
	return id, nil
}

func (r *PersonRepository) List(ctx context.Context) ([]*domain.Person, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+personColumns+` FROM personen`)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	persons := make([]*domain.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return persons, nil
}

func (r *PersonRepository) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+personColumns+` FROM personen WHERE id = $1`, id)
	return scanPerson(row)
}

func (r *PersonRepository) Update(ctx context.Context, id int64, f domain.PersonFields) (*domain.Person, error) {
	query := `
		UPDATE personen
		SET    vorname       = $2,
		       nachname      = $3,
		       plz           = $4,
		       strasse       = $5,
		       ort           = $6,
		       telefonnummer = $7,
		       email         = $8
		WHERE id = $1
		RETURNING ` + personColumns

	row := r.pool.QueryRow(ctx, query,
		id, f.Vorname, f.Nachname, f.PLZ, f.Strasse, f.Ort, f.Telefonnummer, f.Email,
	)
	return scanPerson(row)
}

func (r *PersonRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM personen WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPersonNotFound
	}
	return nil
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*domain.Person, error) {
	var p domain.Person
	err := row.Scan(
		&p.ID, &p.Vorname, &p.Nachname, &p.PLZ, &p.Strasse, &p.Ort, &p.Telefonnummer, &p.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPersonNotFound
		}
		return nil, fmt.Errorf("scan person: %w", err)
	}
	return &p, nil
}
