package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Trades implements store.TradeStore with the same winner-takes-it
// semantics as the SQL implementation: every transition re-checks state
// under the store lock.
type Trades struct {
	s *Store
}

func (v *Trades) Create(ctx context.Context, t *models.Trade) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	v.s.trades[t.ID] = copyTrade(t)
	return nil
}

func (v *Trades) GetByID(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	t, ok := v.s.trades[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyTrade(t), nil
}

func (v *Trades) ListByUser(ctx context.Context, f models.TradeFilter) ([]*models.Trade, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var out []*models.Trade
	for _, t := range v.s.trades {
		if t.SenderID != f.UserID && t.ReceiverID != f.UserID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		out = append(out, copyTrade(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (v *Trades) Transition(ctx context.Context, id uuid.UUID, from, to models.TradeStatus) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	return v.transitionLocked(id, from, to)
}

func (v *Trades) transitionLocked(id uuid.UUID, from, to models.TradeStatus) error {
	t, ok := v.s.trades[id]
	if !ok {
		return store.ErrNotFound
	}
	if t.Status != from {
		return store.ErrConflict
	}
	t.Status = to
	t.UpdatedAt = time.Now()
	return nil
}

func (v *Trades) Accept(ctx context.Context, t *models.Trade) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	stored, ok := v.s.trades[t.ID]
	if !ok {
		return store.ErrNotFound
	}
	if stored.Status != models.TradePending {
		return store.ErrConflict
	}

	// All or nothing: every item must still be AVAILABLE.
	ids := t.ItemIDs()
	for _, id := range ids {
		it, ok := v.s.items[id]
		if !ok || it.Status != models.ItemAvailable {
			return store.ErrConflict
		}
	}
	now := time.Now()
	for _, id := range ids {
		v.s.items[id].Status = models.ItemPendingTrade
		v.s.items[id].UpdatedAt = now
	}

	stored.Status = models.TradeAccepted
	stored.UpdatedAt = now
	return nil
}

func (v *Trades) Confirm(ctx context.Context, id uuid.UUID, bySender bool) (bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	t, ok := v.s.trades[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if t.Status != models.TradeAccepted {
		return false, store.ErrConflict
	}

	if bySender {
		if t.SenderConfirmed {
			return false, store.ErrConflict
		}
		t.SenderConfirmed = true
	} else {
		if t.ReceiverConfirmed {
			return false, store.ErrConflict
		}
		t.ReceiverConfirmed = true
	}
	now := time.Now()
	t.UpdatedAt = now

	if !(t.SenderConfirmed && t.ReceiverConfirmed) {
		return false, nil
	}

	t.Status = models.TradeCompleted
	t.CompletedAt = &now
	for _, itemID := range append(append([]uuid.UUID(nil), t.SenderItemIDs...), t.ReceiverItemIDs...) {
		if it, ok := v.s.items[itemID]; ok {
			it.Status = models.ItemTraded
			it.UpdatedAt = now
		}
	}
	for _, userID := range []uuid.UUID{t.SenderID, t.ReceiverID} {
		if u, ok := v.s.users[userID]; ok {
			u.TotalTrades++
			u.UpdatedAt = now
		}
	}
	return true, nil
}

func (v *Trades) Cancel(ctx context.Context, t *models.Trade, from models.TradeStatus) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if err := v.transitionLocked(t.ID, from, models.TradeCancelled); err != nil {
		return err
	}

	if from == models.TradeAccepted {
		stored := v.s.trades[t.ID]
		now := time.Now()
		for _, itemID := range append(append([]uuid.UUID(nil), stored.SenderItemIDs...), stored.ReceiverItemIDs...) {
			if it, ok := v.s.items[itemID]; ok && it.Status == models.ItemPendingTrade {
				it.Status = models.ItemAvailable
				it.UpdatedAt = now
			}
		}
	}
	return nil
}
