package memstore

import (
	"context"
	"time"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Sessions implements store.SessionStore.
type Sessions struct {
	s *Store
}

func (v *Sessions) Create(ctx context.Context, sess *models.Session) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	v.s.sessions[sess.TokenID] = copySession(sess)
	return nil
}

func (v *Sessions) GetByTokenID(ctx context.Context, tokenID string) (*models.Session, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	sess, ok := v.s.sessions[tokenID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copySession(sess), nil
}

func (v *Sessions) DeleteByTokenID(ctx context.Context, tokenID string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.sessions[tokenID]; !ok {
		return store.ErrNotFound
	}
	delete(v.s.sessions, tokenID)
	return nil
}

func (v *Sessions) DeleteExpired(ctx context.Context) (int64, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var n int64
	now := time.Now()
	for tokenID, sess := range v.s.sessions {
		if sess.ExpiresAt.Before(now) {
			delete(v.s.sessions, tokenID)
			n++
		}
	}
	return n, nil
}
