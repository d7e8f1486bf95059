package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates every table and index the API needs. Statements are
// idempotent so startup can run this unconditionally.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS universities (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email_domain TEXT NOT NULL UNIQUE,
			location TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			university_id UUID NOT NULL REFERENCES universities(id),
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			major TEXT,
			graduation_year INT,
			dorm_location TEXT,
			phone_number TEXT,
			profile_image_url TEXT,
			reputation_score DOUBLE PRECISION NOT NULL DEFAULT 5.0,
			total_trades INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			provider_id TEXT NOT NULL,
			password_hash BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, provider_id)
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token_id TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL REFERENCES users(id),
			university_id UUID NOT NULL REFERENCES universities(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			condition TEXT NOT NULL,
			image_urls TEXT[] NOT NULL DEFAULT '{}',
			estimated_value DOUBLE PRECISION,
			campus_location TEXT,
			looking_for TEXT,
			open_to_offers BOOLEAN NOT NULL DEFAULT TRUE,
			status TEXT NOT NULL DEFAULT 'AVAILABLE',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			id UUID PRIMARY KEY,
			sender_id UUID NOT NULL REFERENCES users(id),
			receiver_id UUID NOT NULL REFERENCES users(id),
			message TEXT,
			meeting_location TEXT,
			meeting_time TIMESTAMPTZ,
			status TEXT NOT NULL DEFAULT 'PENDING',
			sender_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			receiver_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trade_items (
			trade_id UUID NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
			item_id UUID NOT NULL REFERENCES items(id),
			side TEXT NOT NULL,
			PRIMARY KEY (trade_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			sender_id UUID NOT NULL REFERENCES users(id),
			receiver_id UUID NOT NULL REFERENCES users(id),
			item_id UUID REFERENCES items(id),
			trade_id UUID REFERENCES trades(id),
			content TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			read_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			trade_id UUID NOT NULL REFERENCES trades(id),
			reviewer_id UUID NOT NULL REFERENCES users(id),
			reviewee_id UUID NOT NULL REFERENCES users(id),
			rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (trade_id, reviewer_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY,
			reporter_id UUID NOT NULL REFERENCES users(id),
			item_id UUID REFERENCES items(id),
			reason TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'PENDING',
			resolution_note TEXT,
			resolved_by TEXT,
			resolved_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_university ON users(university_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_browse ON items(university_id, status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_sender ON trades(sender_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_receiver ON trades(receiver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id, is_read)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, receiver_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_reviewee ON reviews(reviewee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
