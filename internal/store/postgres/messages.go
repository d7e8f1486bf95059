package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusswap/campusswap-api/internal/models"
)

// MessageStore implements store.MessageStore.
type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

func (s *MessageStore) Create(ctx context.Context, m *models.Message) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, item_id, trade_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	`, m.ID, m.SenderID, m.ReceiverID, m.ItemID, m.TradeID, m.Content, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *MessageStore) Conversation(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, receiver_id, item_id, trade_id, content, is_read, read_at, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, userID, otherID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	defer rows.Close()

	var out []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.ItemID, &m.TradeID,
			&m.Content, &m.IsRead, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *MessageStore) MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		UPDATE messages SET is_read = TRUE, read_at = now()
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE
	`, receiverID, senderID)
	if err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}

func (s *MessageStore) Inbox(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	// Latest message per counterparty first, then unread counts merged in.
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END)
			CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS other_id,
			content, created_at
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("load inbox: %w", err)
	}
	defer rows.Close()

	var out []*models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.CounterpartyID, &c.LastMessageText, &c.LastMessageTime); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	unread, err := s.pool.Query(ctx, `
		SELECT sender_id, COUNT(*) FROM messages
		WHERE receiver_id = $1 AND is_read = FALSE
		GROUP BY sender_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	defer unread.Close()

	counts := make(map[uuid.UUID]int)
	for unread.Next() {
		var senderID uuid.UUID
		var n int
		if err := unread.Scan(&senderID, &n); err != nil {
			return nil, fmt.Errorf("scan unread count: %w", err)
		}
		counts[senderID] = n
	}
	if err := unread.Err(); err != nil {
		return nil, err
	}

	for _, c := range out {
		c.UnreadCount = counts[c.CounterpartyID]
	}

	// Most recent conversation first.
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageTime.After(out[j].LastMessageTime)
	})
	return out, nil
}
