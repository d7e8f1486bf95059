package memstore

import (
	"context"
	"sort"

	"github.com/oklog/ulid/v2"

	"github.com/campusswap/campusswap-api/internal/models"
)

// Events implements store.EventStore.
type Events struct {
	s *Store
}

func (v *Events) LogTradeEvent(ctx context.Context, e *models.TradeEvent) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if e.ID == "" {
		e.ID = ulid.Make().String()
	}
	c := *e
	v.s.events = append(v.s.events, &c)
	return nil
}

func (v *Events) AddNotification(ctx context.Context, n *models.Notification) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if n.ID == "" {
		n.ID = ulid.Make().String()
	}
	c := *n
	v.s.notifications = append(v.s.notifications, &c)
	return nil
}

func (v *Events) Notifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var out []*models.Notification
	for _, n := range v.s.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (v *Events) MarkNotificationsRead(ctx context.Context, userID string, ids []string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	for _, n := range v.s.notifications {
		if n.UserID != userID {
			continue
		}
		if len(ids) == 0 || wanted[n.ID] {
			n.IsRead = true
		}
	}
	return nil
}

// TradeEvents returns the audit trail recorded for a trade, oldest first.
// Test helper.
func (v *Events) TradeEvents(tradeID string) []*models.TradeEvent {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var out []*models.TradeEvent
	for _, e := range v.s.events {
		if e.TradeID == tradeID {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}
