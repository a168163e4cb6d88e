// Package sqlite persists merged soundings to a local SQLite database. It is
// the sink for CLI loads and for deployments without a Kafka consumer
// downstream.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/bufkit-etl/internal/domain"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get when no sounding has the given ID.
var ErrNotFound = errors.New("sounding not found")

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
}

var schema = []string{`
CREATE TABLE IF NOT EXISTS soundings (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	station_num  INTEGER,
	station_id   TEXT,
	valid_time   TEXT NOT NULL,
	lead_time    INTEGER,
	lat          REAL,
	lon          REAL,
	place_name   TEXT,
	payload      TEXT NOT NULL,
	processed_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_soundings_station ON soundings(station_id, valid_time)`,
	`CREATE INDEX IF NOT EXISTS idx_soundings_station_num ON soundings(station_num, valid_time)`,
}

const insertSounding = `
INSERT INTO soundings
	(id, source, station_num, station_id, valid_time, lead_time, lat, lon, place_name, payload, processed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`

// Store writes soundings to SQLite. It implements pipeline.BatchLoader.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create soundings schema: %w", err)
		}
	}

	logger.Info("sqlite store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// LoadBatch inserts the soundings in one transaction. Soundings already stored
// under the same ID are left as they are, so reloading a file is a no-op.
func (s *Store) LoadBatch(ctx context.Context, soundings []domain.Sounding) error {
	if len(soundings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, insertSounding)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for i := range soundings {
		args, err := rowArgs(soundings[i])
		if err != nil {
			return err
		}
		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return fmt.Errorf("insert sounding %s: %w", soundings[i].ID, err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit soundings: %w", err)
	}
	s.logger.Debug("stored soundings", "batch", len(soundings), "inserted", inserted)
	return nil
}

// Get returns the stored sounding with the given ID.
func (s *Store) Get(ctx context.Context, id string) (domain.Sounding, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM soundings WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sounding{}, ErrNotFound
	}
	if err != nil {
		return domain.Sounding{}, fmt.Errorf("query sounding %s: %w", id, err)
	}

	var out domain.Sounding
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return domain.Sounding{}, fmt.Errorf("decode sounding %s: %w", id, err)
	}
	return out, nil
}

// CountByStation returns how many soundings are stored for a station ID.
func (s *Store) CountByStation(ctx context.Context, stationID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM soundings WHERE station_id = ?`, stationID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count soundings for %s: %w", stationID, err)
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func rowArgs(snd domain.Sounding) ([]any, error) {
	payload, err := json.Marshal(snd)
	if err != nil {
		return nil, fmt.Errorf("encode sounding %s: %w", snd.ID, err)
	}

	var lat, lon sql.NullFloat64
	if loc := snd.Station.Location; loc != nil {
		lat = sql.NullFloat64{Float64: loc.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: loc.Lon, Valid: true}
	}
	var placeName sql.NullString
	if snd.PlaceName != "" {
		placeName = sql.NullString{String: snd.PlaceName, Valid: true}
	}

	return []any{
		snd.ID,
		snd.Source,
		nullInt(snd.Station.Num),
		nullString(snd.Station.ID),
		snd.ValidTime.UTC().Format(time.RFC3339),
		nullInt(snd.LeadTime),
		lat,
		lon,
		placeName,
		string(payload),
		snd.ProcessedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
