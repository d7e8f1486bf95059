package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Users implements store.UserStore.
type Users struct {
	s *Store
}

func (v *Users) CreateWithAccount(ctx context.Context, user *models.User, account *models.Account) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, u := range v.s.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}

	v.s.users[user.ID] = copyUser(user)
	acc := *account
	v.s.accounts = append(v.s.accounts, &acc)
	return nil
}

func (v *Users) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	u, ok := v.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyUser(u), nil
}

func (v *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, u := range v.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (v *Users) AccountFor(ctx context.Context, userID uuid.UUID, providerID string) (*models.Account, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, a := range v.s.accounts {
		if a.UserID == userID && a.ProviderID == providerID {
			c := *a
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v *Users) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	u, ok := v.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Major != nil {
		u.Major = upd.Major
	}
	if upd.GraduationYear != nil {
		u.GraduationYear = upd.GraduationYear
	}
	if upd.DormLocation != nil {
		u.DormLocation = upd.DormLocation
	}
	if upd.PhoneNumber != nil {
		u.PhoneNumber = upd.PhoneNumber
	}
	if upd.ProfileImageURL != nil {
		u.ProfileImageURL = upd.ProfileImageURL
	}
	u.UpdatedAt = time.Now()

	return copyUser(u), nil
}

func (v *Users) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	u, ok := v.s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.IsVerified = verified
	u.UpdatedAt = time.Now()
	return nil
}
