// Package memstore is an in-memory implementation of the store interfaces.
// It mirrors the guarded-transition semantics of the PostgreSQL store so
// service tests exercise the same conflict paths without a database.
package memstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

var (
	_ store.UserStore       = (*Users)(nil)
	_ store.UniversityStore = (*Universities)(nil)
	_ store.SessionStore    = (*Sessions)(nil)
	_ store.ItemStore       = (*Items)(nil)
	_ store.TradeStore      = (*Trades)(nil)
	_ store.MessageStore    = (*Messages)(nil)
	_ store.ReviewStore     = (*Reviews)(nil)
	_ store.ReportStore     = (*Reports)(nil)
	_ store.EventStore      = (*Events)(nil)
)

// Store holds all state behind one mutex. Entity views share it, so
// multi-entity operations (trade accept, review reputation) stay atomic.
type Store struct {
	mu sync.Mutex

	users         map[uuid.UUID]*models.User
	accounts      []*models.Account
	universities  map[uuid.UUID]*models.University
	sessions      map[string]*models.Session
	items         map[uuid.UUID]*models.Item
	trades        map[uuid.UUID]*models.Trade
	messages      []*models.Message
	reviews       map[uuid.UUID]*models.Review
	reports       map[uuid.UUID]*models.Report
	events        []*models.TradeEvent
	notifications []*models.Notification
}

func New() *Store {
	return &Store{
		users:        make(map[uuid.UUID]*models.User),
		universities: make(map[uuid.UUID]*models.University),
		sessions:     make(map[string]*models.Session),
		items:        make(map[uuid.UUID]*models.Item),
		trades:       make(map[uuid.UUID]*models.Trade),
		reviews:      make(map[uuid.UUID]*models.Review),
		reports:      make(map[uuid.UUID]*models.Report),
	}
}

// Entity views. Each implements the matching store interface.

func (s *Store) Users() *Users               { return &Users{s} }
func (s *Store) Universities() *Universities { return &Universities{s} }
func (s *Store) Sessions() *Sessions         { return &Sessions{s} }
func (s *Store) Items() *Items               { return &Items{s} }
func (s *Store) Trades() *Trades             { return &Trades{s} }
func (s *Store) Messages() *Messages         { return &Messages{s} }
func (s *Store) Reviews() *Reviews           { return &Reviews{s} }
func (s *Store) Reports() *Reports           { return &Reports{s} }
func (s *Store) Events() *Events             { return &Events{s} }

// Stored values are copied on the way in and out so callers can never
// mutate shared state outside the lock.

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyUniversity(u *models.University) *models.University {
	c := *u
	return &c
}

func copySession(sess *models.Session) *models.Session {
	c := *sess
	return &c
}

func copyItem(it *models.Item) *models.Item {
	c := *it
	c.ImageURLs = append([]string(nil), it.ImageURLs...)
	return &c
}

func copyTrade(t *models.Trade) *models.Trade {
	c := *t
	c.SenderItemIDs = append([]uuid.UUID(nil), t.SenderItemIDs...)
	c.ReceiverItemIDs = append([]uuid.UUID(nil), t.ReceiverItemIDs...)
	return &c
}

func copyMessage(m *models.Message) *models.Message {
	c := *m
	return &c
}

func copyReview(r *models.Review) *models.Review {
	c := *r
	return &c
}

func copyReport(r *models.Report) *models.Report {
	c := *r
	return &c
}
