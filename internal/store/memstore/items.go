package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Items implements store.ItemStore.
type Items struct {
	s *Store
}

func (v *Items) Create(ctx context.Context, item *models.Item) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	v.s.items[item.ID] = copyItem(item)
	return nil
}

func (v *Items) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	it, ok := v.s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyItem(it), nil
}

func (v *Items) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Item, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var out []*models.Item
	for _, id := range ids {
		if it, ok := v.s.items[id]; ok {
			out = append(out, copyItem(it))
		}
	}
	return out, nil
}

func (v *Items) List(ctx context.Context, f models.ItemFilter) ([]*models.Item, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var matched []*models.Item
	for _, it := range v.s.items {
		if it.Status != models.ItemAvailable {
			continue
		}
		if f.UniversityID != nil && it.UniversityID != *f.UniversityID {
			continue
		}
		if f.Category != nil && it.Category != *f.Category {
			continue
		}
		if f.Condition != nil && it.Condition != *f.Condition {
			continue
		}
		matched = append(matched, it)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	return paginateItems(matched, f.Limit, f.Offset), nil
}

func (v *Items) ListByOwner(ctx context.Context, ownerID uuid.UUID, includeRemoved bool) ([]*models.Item, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var out []*models.Item
	for _, it := range v.s.items {
		if it.OwnerID != ownerID {
			continue
		}
		if !includeRemoved && it.Status == models.ItemRemoved {
			continue
		}
		out = append(out, copyItem(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (v *Items) Update(ctx context.Context, id uuid.UUID, upd models.ItemUpdate) (*models.Item, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	it, ok := v.s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if it.Status != models.ItemAvailable {
		return nil, store.ErrConflict
	}

	if upd.Title != nil {
		it.Title = *upd.Title
	}
	if upd.Description != nil {
		it.Description = *upd.Description
	}
	if upd.Category != nil {
		it.Category = *upd.Category
	}
	if upd.Condition != nil {
		it.Condition = *upd.Condition
	}
	if upd.ImageURLs != nil {
		it.ImageURLs = append([]string(nil), upd.ImageURLs...)
	}
	if upd.EstimatedValue != nil {
		it.EstimatedValue = upd.EstimatedValue
	}
	if upd.CampusLocation != nil {
		it.CampusLocation = upd.CampusLocation
	}
	if upd.LookingFor != nil {
		it.LookingFor = upd.LookingFor
	}
	if upd.OpenToOffers != nil {
		it.OpenToOffers = *upd.OpenToOffers
	}
	it.UpdatedAt = time.Now()

	return copyItem(it), nil
}

func (v *Items) SetStatus(ctx context.Context, id uuid.UUID, from, to models.ItemStatus) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	it, ok := v.s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	if it.Status != from {
		return store.ErrConflict
	}
	it.Status = to
	it.UpdatedAt = time.Now()
	return nil
}

func paginateItems(items []*models.Item, limit, offset int) []*models.Item {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]*models.Item, len(items))
	for i, it := range items {
		out[i] = copyItem(it)
	}
	return out
}
