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

const itemColumns = `id, owner_id, university_id, title, description, category, condition,
	image_urls, estimated_value, campus_location, looking_for, open_to_offers, status,
	created_at, updated_at`

// ItemStore implements store.ItemStore.
type ItemStore struct {
	pool *pgxpool.Pool
}

func NewItemStore(pool *pgxpool.Pool) *ItemStore {
	return &ItemStore{pool: pool}
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var it models.Item
	err := row.Scan(
		&it.ID, &it.OwnerID, &it.UniversityID, &it.Title, &it.Description,
		&it.Category, &it.Condition, &it.ImageURLs, &it.EstimatedValue,
		&it.CampusLocation, &it.LookingFor, &it.OpenToOffers, &it.Status,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func collectItems(rows pgx.Rows) ([]*models.Item, error) {
	defer rows.Close()
	var out []*models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *ItemStore) Create(ctx context.Context, item *models.Item) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO items (id, owner_id, university_id, title, description, category, condition,
			image_urls, estimated_value, campus_location, looking_for, open_to_offers, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	`, item.ID, item.OwnerID, item.UniversityID, item.Title, item.Description,
		item.Category, item.Condition, item.ImageURLs, item.EstimatedValue,
		item.CampusLocation, item.LookingFor, item.OpenToOffers, item.Status, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *ItemStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	it, err := scanItem(s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (s *ItemStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := queryContext(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return collectItems(rows)
}

func (s *ItemStore) List(ctx context.Context, f models.ItemFilter) ([]*models.Item, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	// Browsing only ever shows AVAILABLE listings. Nil filter fields are
	// passed as NULL and disabled by the IS NULL arm.
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE status = 'AVAILABLE'
		  AND ($1::uuid IS NULL OR university_id = $1)
		  AND ($2::text IS NULL OR category = $2)
		  AND ($3::text IS NULL OR condition = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, f.UniversityID, f.Category, f.Condition, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return collectItems(rows)
}

func (s *ItemStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, includeRemoved bool) ([]*models.Item, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = $1 ORDER BY created_at DESC`
	if !includeRemoved {
		query = `SELECT ` + itemColumns + ` FROM items
			WHERE owner_id = $1 AND status <> 'REMOVED' ORDER BY created_at DESC`
	}

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items by owner: %w", err)
	}
	return collectItems(rows)
}

func (s *ItemStore) Update(ctx context.Context, id uuid.UUID, upd models.ItemUpdate) (*models.Item, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	// The status guard keeps edits off items already locked into a trade.
	it, err := scanItem(s.pool.QueryRow(ctx, `
		UPDATE items SET
			title           = COALESCE($2, title),
			description     = COALESCE($3, description),
			category        = COALESCE($4, category),
			condition       = COALESCE($5, condition),
			image_urls      = COALESCE($6, image_urls),
			estimated_value = COALESCE($7, estimated_value),
			campus_location = COALESCE($8, campus_location),
			looking_for     = COALESCE($9, looking_for),
			open_to_offers  = COALESCE($10, open_to_offers),
			updated_at      = now()
		WHERE id = $1 AND status = 'AVAILABLE'
		RETURNING `+itemColumns,
		id, upd.Title, upd.Description, upd.Category, upd.Condition, upd.ImageURLs,
		upd.EstimatedValue, upd.CampusLocation, upd.LookingFor, upd.OpenToOffers))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, gerr := s.GetByID(ctx, id); errors.Is(gerr, store.ErrNotFound) {
				return nil, store.ErrNotFound
			}
			return nil, store.ErrConflict
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

func (s *ItemStore) SetStatus(ctx context.Context, id uuid.UUID, from, to models.ItemStatus) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE items SET status = $3, updated_at = now() WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return fmt.Errorf("set item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, gerr := s.GetByID(ctx, id); errors.Is(gerr, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return store.ErrConflict
	}
	return nil
}
