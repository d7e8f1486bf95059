package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

const universityColumns = `id, name, email_domain, location, is_active, created_at, updated_at`

// UniversityStore implements store.UniversityStore.
type UniversityStore struct {
	pool *pgxpool.Pool
}

func NewUniversityStore(pool *pgxpool.Pool) *UniversityStore {
	return &UniversityStore{pool: pool}
}

func scanUniversity(row pgx.Row) (*models.University, error) {
	var u models.University
	err := row.Scan(&u.ID, &u.Name, &u.EmailDomain, &u.Location, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UniversityStore) Create(ctx context.Context, u *models.University) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO universities (id, name, email_domain, location, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, u.ID, u.Name, u.EmailDomain, u.Location, u.IsActive, u.CreatedAt)
	if err != nil {
		if errors.Is(translateErr(err), store.ErrDuplicate) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert university: %w", err)
	}
	return nil
}

func (s *UniversityStore) GetByID(ctx context.Context, id uuid.UUID) (*models.University, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	u, err := scanUniversity(s.pool.QueryRow(ctx,
		`SELECT `+universityColumns+` FROM universities WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get university: %w", err)
	}
	return u, nil
}

func (s *UniversityStore) GetByEmailDomain(ctx context.Context, domain string) (*models.University, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	u, err := scanUniversity(s.pool.QueryRow(ctx,
		`SELECT `+universityColumns+` FROM universities WHERE email_domain = $1`, domain))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get university by domain: %w", err)
	}
	return u, nil
}

func (s *UniversityStore) List(ctx context.Context, activeOnly bool) ([]*models.University, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT ` + universityColumns + ` FROM universities ORDER BY name`
	if activeOnly {
		query = `SELECT ` + universityColumns + ` FROM universities WHERE is_active ORDER BY name`
	}

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	defer rows.Close()

	var out []*models.University
	for rows.Next() {
		u, err := scanUniversity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan university: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *UniversityStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE universities SET is_active = $2, updated_at = now() WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("set university active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
