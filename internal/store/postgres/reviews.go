package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// ReviewStore implements store.ReviewStore.
type ReviewStore struct {
	pool *pgxpool.Pool
}

func NewReviewStore(pool *pgxpool.Pool) *ReviewStore {
	return &ReviewStore{pool: pool}
}

func (s *ReviewStore) Create(ctx context.Context, r *models.Review) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO reviews (id, trade_id, reviewer_id, reviewee_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.TradeID, r.ReviewerID, r.RevieweeID, r.Rating, r.Comment, r.CreatedAt)
	if err != nil {
		if errors.Is(translateErr(err), store.ErrDuplicate) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert review: %w", err)
	}

	// Reputation stays the mean of all ratings received, recomputed in the
	// same transaction so it can never drift from the reviews table.
	_, err = tx.Exec(ctx, `
		UPDATE users
		SET reputation_score = (SELECT AVG(rating)::float8 FROM reviews WHERE reviewee_id = $1),
		    updated_at = now()
		WHERE id = $1
	`, r.RevieweeID)
	if err != nil {
		return fmt.Errorf("recompute reputation: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *ReviewStore) ListForUser(ctx context.Context, revieweeID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	return s.list(ctx, `r.reviewee_id = $1`, revieweeID, limit, offset)
}

func (s *ReviewStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	return s.list(ctx, `(r.reviewer_id = $1 OR r.reviewee_id = $1)`, userID, limit, offset)
}

func (s *ReviewStore) list(ctx context.Context, where string, id uuid.UUID, limit, offset int) ([]*models.Review, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.trade_id, r.reviewer_id, r.reviewee_id, r.rating, r.comment, r.created_at,
			u.id, u.university_id, u.name, u.is_verified, u.major, u.graduation_year,
			u.profile_image_url, u.reputation_score, u.total_trades, u.created_at
		FROM reviews r
		JOIN users u ON u.id = r.reviewer_id
		WHERE `+where+`
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []*models.Review
	for rows.Next() {
		var r models.Review
		var p models.PublicProfile
		err := rows.Scan(
			&r.ID, &r.TradeID, &r.ReviewerID, &r.RevieweeID, &r.Rating, &r.Comment, &r.CreatedAt,
			&p.ID, &p.UniversityID, &p.Name, &p.IsVerified, &p.Major, &p.GraduationYear,
			&p.ProfileImageURL, &p.ReputationScore, &p.TotalTrades, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.Reviewer = &p
		out = append(out, &r)
	}
	return out, rows.Err()
}
