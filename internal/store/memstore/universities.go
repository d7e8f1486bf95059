package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Universities implements store.UniversityStore.
type Universities struct {
	s *Store
}

func (v *Universities) Create(ctx context.Context, u *models.University) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, existing := range v.s.universities {
		if existing.EmailDomain == u.EmailDomain {
			return store.ErrDuplicate
		}
	}
	v.s.universities[u.ID] = copyUniversity(u)
	return nil
}

func (v *Universities) GetByID(ctx context.Context, id uuid.UUID) (*models.University, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	u, ok := v.s.universities[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyUniversity(u), nil
}

func (v *Universities) GetByEmailDomain(ctx context.Context, domain string) (*models.University, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, u := range v.s.universities {
		if u.EmailDomain == domain {
			return copyUniversity(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (v *Universities) List(ctx context.Context, activeOnly bool) ([]*models.University, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var out []*models.University
	for _, u := range v.s.universities {
		if activeOnly && !u.IsActive {
			continue
		}
		out = append(out, copyUniversity(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v *Universities) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	u, ok := v.s.universities[id]
	if !ok {
		return store.ErrNotFound
	}
	u.IsActive = active
	u.UpdatedAt = time.Now()
	return nil
}
