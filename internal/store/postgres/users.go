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

const userColumns = `id, university_id, email, name, is_verified, major, graduation_year,
	dorm_location, phone_number, profile_image_url, reputation_score, total_trades,
	created_at, updated_at`

// UserStore implements store.UserStore.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.UniversityID, &u.Email, &u.Name, &u.IsVerified, &u.Major,
		&u.GraduationYear, &u.DormLocation, &u.PhoneNumber, &u.ProfileImageURL,
		&u.ReputationScore, &u.TotalTrades, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) CreateWithAccount(ctx context.Context, user *models.User, account *models.Account) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, university_id, email, name, is_verified, major, graduation_year,
			dorm_location, phone_number, profile_image_url, reputation_score, total_trades,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
	`, user.ID, user.UniversityID, user.Email, user.Name, user.IsVerified, user.Major,
		user.GraduationYear, user.DormLocation, user.PhoneNumber, user.ProfileImageURL,
		user.ReputationScore, user.TotalTrades, user.CreatedAt)
	if err != nil {
		if translated := translateErr(err); errors.Is(translated, store.ErrDuplicate) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (id, user_id, provider_id, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, account.ID, account.UserID, account.ProviderID, account.PasswordHash, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) AccountFor(ctx context.Context, userID uuid.UUID, providerID string) (*models.Account, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	var a models.Account
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, provider_id, password_hash, created_at
		FROM accounts WHERE user_id = $1 AND provider_id = $2
	`, userID, providerID).Scan(&a.ID, &a.UserID, &a.ProviderID, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.User, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, `
		UPDATE users SET
			name              = COALESCE($2, name),
			major             = COALESCE($3, major),
			graduation_year   = COALESCE($4, graduation_year),
			dorm_location     = COALESCE($5, dorm_location),
			phone_number      = COALESCE($6, phone_number),
			profile_image_url = COALESCE($7, profile_image_url),
			updated_at        = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, upd.Name, upd.Major, upd.GraduationYear, upd.DormLocation,
		upd.PhoneNumber, upd.ProfileImageURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *UserStore) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET is_verified = $2, updated_at = now() WHERE id = $1
	`, id, verified)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
