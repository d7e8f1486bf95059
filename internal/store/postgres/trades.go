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

const tradeColumns = `id, sender_id, receiver_id, message, meeting_location, meeting_time, status,
	sender_confirmed, receiver_confirmed, completed_at, created_at, updated_at`

// TradeStore implements store.TradeStore. Lifecycle methods re-check the
// current status inside their transaction, so concurrent transitions on the
// same trade or items resolve to exactly one winner.
type TradeStore struct {
	pool *pgxpool.Pool
}

func NewTradeStore(pool *pgxpool.Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

func scanTrade(row pgx.Row) (*models.Trade, error) {
	var t models.Trade
	err := row.Scan(
		&t.ID, &t.SenderID, &t.ReceiverID, &t.Message, &t.MeetingLocation,
		&t.MeetingTime, &t.Status, &t.SenderConfirmed, &t.ReceiverConfirmed,
		&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TradeStore) Create(ctx context.Context, t *models.Trade) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO trades (id, sender_id, receiver_id, message, meeting_location, meeting_time,
			status, sender_confirmed, receiver_confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, FALSE, $8, $8)
	`, t.ID, t.SenderID, t.ReceiverID, t.Message, t.MeetingLocation, t.MeetingTime, t.Status, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}

	for _, itemID := range t.SenderItemIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO trade_items (trade_id, item_id, side) VALUES ($1, $2, 'sender')
		`, t.ID, itemID); err != nil {
			return fmt.Errorf("insert trade item: %w", err)
		}
	}
	for _, itemID := range t.ReceiverItemIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO trade_items (trade_id, item_id, side) VALUES ($1, $2, 'receiver')
		`, t.ID, itemID); err != nil {
			return fmt.Errorf("insert trade item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// loadItems fills the item id sets of every trade in ts with one query.
func (s *TradeStore) loadItems(ctx context.Context, ts []*models.Trade) error {
	if len(ts) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Trade, len(ts))
	ids := make([]uuid.UUID, 0, len(ts))
	for _, t := range ts {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT trade_id, item_id, side FROM trade_items WHERE trade_id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("load trade items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tradeID, itemID uuid.UUID
		var side string
		if err := rows.Scan(&tradeID, &itemID, &side); err != nil {
			return fmt.Errorf("scan trade item: %w", err)
		}
		t := byID[tradeID]
		if side == "sender" {
			t.SenderItemIDs = append(t.SenderItemIDs, itemID)
		} else {
			t.ReceiverItemIDs = append(t.ReceiverItemIDs, itemID)
		}
	}
	return rows.Err()
}

func (s *TradeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	t, err := scanTrade(s.pool.QueryRow(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get trade: %w", err)
	}
	if err := s.loadItems(ctx, []*models.Trade{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TradeStore) ListByUser(ctx context.Context, f models.TradeFilter) ([]*models.Trade, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+tradeColumns+` FROM trades
		WHERE (sender_id = $1 OR receiver_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, f.UserID, f.Status, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	var out []*models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// transitionTx is the guarded status flip shared by the lifecycle methods.
func (s *TradeStore) transitionTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to models.TradeStatus) error {
	tag, err := tx.Exec(ctx, `
		UPDATE trades SET status = $3, updated_at = now() WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return fmt.Errorf("update trade status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trades WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check trade: %w", err)
		}
		if !exists {
			return store.ErrNotFound
		}
		return store.ErrConflict
	}
	return nil
}

func (s *TradeStore) Transition(ctx context.Context, id uuid.UUID, from, to models.TradeStatus) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.transitionTx(ctx, tx, id, from, to); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *TradeStore) Accept(ctx context.Context, t *models.Trade) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Reserve every item on both sides. An item that left AVAILABLE since
	// the proposal (another accepted trade, owner removal) makes the count
	// fall short and aborts the accept.
	ids := t.ItemIDs()
	tag, err := tx.Exec(ctx, `
		UPDATE items SET status = $1, updated_at = now()
		WHERE id = ANY($2) AND status = $3
	`, models.ItemPendingTrade, ids, models.ItemAvailable)
	if err != nil {
		return fmt.Errorf("reserve items: %w", err)
	}
	if int(tag.RowsAffected()) != len(ids) {
		return store.ErrConflict
	}

	if err := s.transitionTx(ctx, tx, t.ID, models.TradePending, models.TradeAccepted); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *TradeStore) Confirm(ctx context.Context, id uuid.UUID, bySender bool) (bool, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Set the caller's flag and read back the counterparty's in one
	// statement, so two racing confirms cannot both see "not yet".
	query := `
		UPDATE trades SET sender_confirmed = TRUE, updated_at = now()
		WHERE id = $1 AND status = $2 AND sender_confirmed = FALSE
		RETURNING receiver_confirmed`
	if !bySender {
		query = `
		UPDATE trades SET receiver_confirmed = TRUE, updated_at = now()
		WHERE id = $1 AND status = $2 AND receiver_confirmed = FALSE
		RETURNING sender_confirmed`
	}

	var otherConfirmed bool
	err = tx.QueryRow(ctx, query, id, models.TradeAccepted).Scan(&otherConfirmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trades WHERE id = $1)`, id).Scan(&exists); err != nil {
				return false, fmt.Errorf("check trade: %w", err)
			}
			if !exists {
				return false, store.ErrNotFound
			}
			return false, store.ErrConflict
		}
		return false, fmt.Errorf("confirm trade: %w", err)
	}

	if !otherConfirmed {
		return false, tx.Commit(ctx)
	}

	// Second confirmation: finalize everything in the same transaction.
	if _, err := tx.Exec(ctx, `
		UPDATE trades SET status = $2, completed_at = now(), updated_at = now() WHERE id = $1
	`, id, models.TradeCompleted); err != nil {
		return false, fmt.Errorf("complete trade: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE items SET status = $2, updated_at = now()
		WHERE id IN (SELECT item_id FROM trade_items WHERE trade_id = $1)
	`, id, models.ItemTraded); err != nil {
		return false, fmt.Errorf("mark items traded: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET total_trades = total_trades + 1, updated_at = now()
		WHERE id IN (SELECT sender_id FROM trades WHERE id = $1
		             UNION SELECT receiver_id FROM trades WHERE id = $1)
	`, id); err != nil {
		return false, fmt.Errorf("bump trade counters: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *TradeStore) Cancel(ctx context.Context, t *models.Trade, from models.TradeStatus) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.transitionTx(ctx, tx, t.ID, from, models.TradeCancelled); err != nil {
		return err
	}

	// Items are only reserved once a trade is accepted.
	if from == models.TradeAccepted {
		if _, err := tx.Exec(ctx, `
			UPDATE items SET status = $2, updated_at = now()
			WHERE id IN (SELECT item_id FROM trade_items WHERE trade_id = $1) AND status = $3
		`, t.ID, models.ItemAvailable, models.ItemPendingTrade); err != nil {
			return fmt.Errorf("release items: %w", err)
		}
	}

	return tx.Commit(ctx)
}
