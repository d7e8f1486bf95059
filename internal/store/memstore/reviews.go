package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Reviews implements store.ReviewStore.
type Reviews struct {
	s *Store
}

func (v *Reviews) Create(ctx context.Context, r *models.Review) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, existing := range v.s.reviews {
		if existing.TradeID == r.TradeID && existing.ReviewerID == r.ReviewerID {
			return store.ErrDuplicate
		}
	}
	v.s.reviews[r.ID] = copyReview(r)

	// Keep the reviewee's reputation equal to the mean of received ratings.
	var sum, n int
	for _, rv := range v.s.reviews {
		if rv.RevieweeID == r.RevieweeID {
			sum += rv.Rating
			n++
		}
	}
	if u, ok := v.s.users[r.RevieweeID]; ok && n > 0 {
		u.ReputationScore = float64(sum) / float64(n)
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (v *Reviews) ListForUser(ctx context.Context, revieweeID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	return v.list(func(r *models.Review) bool { return r.RevieweeID == revieweeID }, limit, offset)
}

func (v *Reviews) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	return v.list(func(r *models.Review) bool {
		return r.ReviewerID == userID || r.RevieweeID == userID
	}, limit, offset)
}

func (v *Reviews) list(match func(*models.Review) bool, limit, offset int) ([]*models.Review, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var out []*models.Review
	for _, r := range v.s.reviews {
		if !match(r) {
			continue
		}
		c := copyReview(r)
		if u, ok := v.s.users[r.ReviewerID]; ok {
			p := u.Public()
			c.Reviewer = &p
		}
		out = append(out, c)
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
