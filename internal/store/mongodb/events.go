// Package mongodb implements the EventStore on MongoDB. Trade audit events
// and notifications live here, off the relational hot path.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

const (
	collectionTradeEvents   = "trade_events"
	collectionNotifications = "notifications"

	connectTimeout = 10 * time.Second
	opTimeout      = 5 * time.Second
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// EventStore implements store.EventStore.
type EventStore struct {
	events        *mongo.Collection
	notifications *mongo.Collection
}

var _ store.EventStore = (*EventStore)(nil)

func NewEventStore(client *mongo.Client, database string) *EventStore {
	db := client.Database(database)
	return &EventStore{
		events:        db.Collection(collectionTradeEvents),
		notifications: db.Collection(collectionNotifications),
	}
}

func (s *EventStore) LogTradeEvent(ctx context.Context, e *models.TradeEvent) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// ULIDs sort by insertion time, so _id doubles as the order key.
	if e.ID == "" {
		e.ID = ulid.Make().String()
	}
	if _, err := s.events.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert trade event: %w", err)
	}
	return nil
}

func (s *EventStore) AddNotification(ctx context.Context, n *models.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if n.ID == "" {
		n.ID = ulid.Make().String()
	}
	if _, err := s.notifications.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *EventStore) Notifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}

	var out []*models.Notification
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return out, nil
}

func (s *EventStore) MarkNotificationsRead(ctx context.Context, userID string, ids []string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if len(ids) > 0 {
		filter["_id"] = bson.M{"$in": ids}
	}

	if _, err := s.notifications.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}}); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}
