package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"flat_watch/internal/model"
	"flat_watch/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SeenIDs returns all listing IDs already notified for the source.
func (s *SQLite) SeenIDs(ctx context.Context, source string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT listing_id FROM seen_listings WHERE source = ?`, source,
	)
	if err != nil {
		return nil, fmt.Errorf("query seen listings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	seen := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan seen listing: %w", err)
		}
		seen[id] = true
	}
	return seen, rows.Err()
}

// MarkSeen records listing IDs as notified for the source. IDs already
// present are left untouched.
func (s *SQLite) MarkSeen(ctx context.Context, source string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(timeLayout)
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO seen_listings (source, listing_id, seen_at) VALUES (?, ?, ?)`,
			source, id, now,
		); err != nil {
			return fmt.Errorf("mark seen %s/%s: %w", source, id, err)
		}
	}
	return tx.Commit()
}

// RecordNotified archives listings that were included in a summary.
func (s *SQLite) RecordNotified(ctx context.Context, listings []model.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(timeLayout)
	for _, l := range listings {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO notified_listings
			 (source, listing_id, title, url, location, price, area, price_per_m2, rooms, floor, amenities, notified_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.Source, l.ID, l.Title, l.URL, l.Location,
			l.Price, l.Area, l.PricePerM2, l.Rooms, l.Floor,
			amenitiesToString(l.Amenities), now,
		); err != nil {
			return fmt.Errorf("record notified %s/%s: %w", l.Source, l.ID, err)
		}
	}
	return tx.Commit()
}

// RecentNotified returns the most recently archived listings, newest first.
func (s *SQLite) RecentNotified(ctx context.Context, limit int) ([]model.Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, listing_id, title, url, location, price, area, price_per_m2, rooms, floor, amenities
		 FROM notified_listings ORDER BY notified_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query notified listings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var listings []model.Listing
	for rows.Next() {
		var l model.Listing
		var amenities string
		err := rows.Scan(&l.Source, &l.ID, &l.Title, &l.URL, &l.Location,
			&l.Price, &l.Area, &l.PricePerM2, &l.Rooms, &l.Floor, &amenities)
		if err != nil {
			return nil, fmt.Errorf("scan notified listing: %w", err)
		}
		l.Amenities = amenitiesFromString(amenities)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func amenitiesToString(amenities []model.Amenity) string {
	parts := make([]string, 0, len(amenities))
	for _, a := range amenities {
		parts = append(parts, string(a))
	}
	return strings.Join(parts, ",")
}

func amenitiesFromString(s string) []model.Amenity {
	if s == "" {
		return nil
	}
	var amenities []model.Amenity
	for _, part := range strings.Split(s, ",") {
		amenities = append(amenities, model.Amenity(part))
	}
	return amenities
}
