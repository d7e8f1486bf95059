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

const reportColumns = `id, reporter_id, item_id, reason, description,
	status, resolution_note, resolved_by, resolved_at, created_at`

// ReportStore implements store.ReportStore.
type ReportStore struct {
	pool *pgxpool.Pool
}

func NewReportStore(pool *pgxpool.Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

func scanReport(row pgx.Row) (*models.Report, error) {
	var r models.Report
	err := row.Scan(
		&r.ID, &r.ReporterID, &r.ItemID, &r.Reason, &r.Description,
		&r.Status, &r.ResolutionNote, &r.ResolvedBy, &r.ResolvedAt, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ReportStore) Create(ctx context.Context, r *models.Report) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO reports (id, reporter_id, item_id, reason, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.ReporterID, r.ItemID, r.Reason, r.Description, r.Status, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *ReportStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	r, err := scanReport(s.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return r, nil
}

func (s *ReportStore) List(ctx context.Context, status *models.ReportStatus, limit, offset int) ([]*models.Report, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+reportColumns+` FROM reports
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []*models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ReportStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, note, resolvedBy *string) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE reports SET status = $2,
			resolution_note = COALESCE($3, resolution_note),
			resolved_by = COALESCE($4, resolved_by),
			resolved_at = CASE WHEN $2 IN ('RESOLVED', 'DISMISSED') THEN now() ELSE resolved_at END
		WHERE id = $1
	`, id, status, note, resolvedBy)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
