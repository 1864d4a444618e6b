// Package store is the thin Postgres persistence adapter. Records are
// keyed by opaque user id and timestamp; writes are last-write-wins per
// entity, with no further consistency guarantees.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/rs/zerolog"

	"github.com/ecozero/sustainpack/internal/packaging"
)

// ActivityLog is a persisted activity with its computed estimate.
type ActivityLog struct {
	UserID   string    `db:"user_id" json:"user_id"`
	LoggedAt time.Time `db:"logged_at" json:"logged_at"`
	Category string    `db:"category" json:"category"`
	Activity string    `db:"activity" json:"activity"`
	Amount   float64   `db:"amount" json:"amount"`
	Unit     string    `db:"unit" json:"unit"`
	CO2eKg   float64   `db:"co2e_kg" json:"co2e_kg"`
	Source   string    `db:"source" json:"source"`
}

// RecommendationLog is a persisted recommendation result.
type RecommendationLog struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	CreatedAt       time.Time        `json:"created_at"`
	ProductCategory string           `json:"product_category"`
	Result          packaging.Result `json:"result"`
}

const schema = `
CREATE TABLE IF NOT EXISTS activities (
	user_id   TEXT NOT NULL,
	logged_at TIMESTAMPTZ NOT NULL,
	category  TEXT NOT NULL,
	activity  TEXT NOT NULL,
	amount    DOUBLE PRECISION NOT NULL,
	unit      TEXT NOT NULL,
	co2e_kg   DOUBLE PRECISION NOT NULL,
	source    TEXT NOT NULL,
	PRIMARY KEY (user_id, logged_at)
);

CREATE TABLE IF NOT EXISTS recommendations (
	id               UUID PRIMARY KEY,
	user_id          TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	product_category TEXT NOT NULL,
	payload          JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS recommendations_user_idx
	ON recommendations (user_id, created_at DESC);
`

// Postgres implements the persistence adapter over sqlx.
type Postgres struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

// Open connects to Postgres and ensures the schema exists.
func Open(ctx context.Context, dsn string, logger zerolog.Logger) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return &Postgres{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// SaveActivity upserts an activity log entry. A second write for the same
// (user_id, logged_at) replaces the first.
func (p *Postgres) SaveActivity(ctx context.Context, entry ActivityLog) error {
	const query = `
		INSERT INTO activities (user_id, logged_at, category, activity, amount, unit, co2e_kg, source)
		VALUES (:user_id, :logged_at, :category, :activity, :amount, :unit, :co2e_kg, :source)
		ON CONFLICT (user_id, logged_at) DO UPDATE SET
			category = EXCLUDED.category,
			activity = EXCLUDED.activity,
			amount   = EXCLUDED.amount,
			unit     = EXCLUDED.unit,
			co2e_kg  = EXCLUDED.co2e_kg,
			source   = EXCLUDED.source`
	if _, err := p.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("saving activity for user %s: %w", entry.UserID, err)
	}
	return nil
}

// ListActivities returns the user's most recent activities, newest first.
func (p *Postgres) ListActivities(ctx context.Context, userID string, limit int) ([]ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT user_id, logged_at, category, activity, amount, unit, co2e_kg, source
		FROM activities
		WHERE user_id = $1
		ORDER BY logged_at DESC
		LIMIT $2`
	var entries []ActivityLog
	if err := p.db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("listing activities for user %s: %w", userID, err)
	}
	return entries, nil
}

// SaveRecommendation stores a recommendation result and returns its id.
func (p *Postgres) SaveRecommendation(ctx context.Context, userID, productCategory string, result packaging.Result) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encoding recommendation payload: %w", err)
	}

	id := uuid.New().String()
	const query = `
		INSERT INTO recommendations (id, user_id, created_at, product_category, payload)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := p.db.ExecContext(ctx, query, id, userID, time.Now().UTC(), productCategory, payload); err != nil {
		return "", fmt.Errorf("saving recommendation for user %s: %w", userID, err)
	}
	return id, nil
}

// ListRecommendations returns the user's most recent recommendations,
// newest first.
func (p *Postgres) ListRecommendations(ctx context.Context, userID string, limit int) ([]RecommendationLog, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, user_id, created_at, product_category, payload
		FROM recommendations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := p.db.QueryxContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recommendations for user %s: %w", userID, err)
	}
	defer rows.Close()

	var entries []RecommendationLog
	for rows.Next() {
		var (
			entry   RecommendationLog
			payload []byte
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.CreatedAt, &entry.ProductCategory, &payload); err != nil {
			return nil, fmt.Errorf("scanning recommendation row: %w", err)
		}
		if err := json.Unmarshal(payload, &entry.Result); err != nil {
			p.logger.Warn().Err(err).Str("recommendation_id", entry.ID).Msg("skipping recommendation with unreadable payload")
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading recommendation rows: %w", err)
	}
	return entries, nil
}
