package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Reports implements store.ReportStore.
type Reports struct {
	s *Store
}

func (v *Reports) Create(ctx context.Context, r *models.Report) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	v.s.reports[r.ID] = copyReport(r)
	return nil
}

func (v *Reports) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	r, ok := v.s.reports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyReport(r), nil
}

func (v *Reports) List(ctx context.Context, status *models.ReportStatus, limit, offset int) ([]*models.Report, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var out []*models.Report
	for _, r := range v.s.reports {
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, copyReport(r))
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

func (v *Reports) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, note, resolvedBy *string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	r, ok := v.s.reports[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Status = status
	if note != nil {
		r.ResolutionNote = note
	}
	if resolvedBy != nil {
		r.ResolvedBy = resolvedBy
	}
	if status == models.ReportResolved || status == models.ReportDismissed {
		now := time.Now()
		r.ResolvedAt = &now
	}
	return nil
}
