package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
)

// Messages implements store.MessageStore.
type Messages struct {
	s *Store
}

func (v *Messages) Create(ctx context.Context, m *models.Message) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	v.s.messages = append(v.s.messages, copyMessage(m))
	return nil
}

func (v *Messages) Conversation(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var out []*models.Message
	for _, m := range v.s.messages {
		if (m.SenderID == userID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == userID) {
			out = append(out, copyMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (v *Messages) MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	now := time.Now()
	for _, m := range v.s.messages {
		if m.ReceiverID == receiverID && m.SenderID == senderID && !m.IsRead {
			m.IsRead = true
			m.ReadAt = &now
		}
	}
	return nil
}

func (v *Messages) Inbox(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	latest := make(map[uuid.UUID]*models.Message)
	unread := make(map[uuid.UUID]int)

	for _, m := range v.s.messages {
		var other uuid.UUID
		switch {
		case m.SenderID == userID:
			other = m.ReceiverID
		case m.ReceiverID == userID:
			other = m.SenderID
		default:
			continue
		}
		if cur, ok := latest[other]; !ok || m.CreatedAt.After(cur.CreatedAt) {
			latest[other] = m
		}
		if m.ReceiverID == userID && !m.IsRead {
			unread[m.SenderID]++
		}
	}

	var out []*models.Conversation
	for other, m := range latest {
		out = append(out, &models.Conversation{
			CounterpartyID:  other,
			LastMessageText: m.Content,
			LastMessageTime: m.CreatedAt,
			UnreadCount:     unread[other],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageTime.After(out[j].LastMessageTime) })
	return out, nil
}
