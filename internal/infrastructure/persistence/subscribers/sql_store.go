// Package subscribers provides the concrete storage backends for newsletter
// subscribers: Turso/sqlite, Mongo, Redis, and a local JSON file, plus the
// priority chain that composes them.
package subscribers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// SQLStore persists subscribers in a relational table, either on Turso
// (edge replica) or a local sqlite file.
type SQLStore struct {
	db       *sql.DB
	useTurso bool
	logger   *logging.ChanneledLogger
}

// NewSQLStore opens the relational backend. Turso wins when both its URL
// and token are configured; otherwise the local sqlite path is used.
func NewSQLStore(cfg *config.Config, logger *logging.ChanneledLogger) (*SQLStore, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	if cfg.TursoConfigured() {
		connStr := cfg.TursoDatabaseURL + "?authToken=" + cfg.TursoAuthToken
		conn, err = sql.Open("libsql", connStr)
		if err != nil {
			return nil, fmt.Errorf("turso connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("turso ping failed: %w", err)
		}
		useTurso = true
	} else {
		dbDir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		conn, err = sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	store := &SQLStore{db: conn, useTurso: useTurso, logger: logger}
	if err := store.ensureSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) ensureSchema() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS newsletter_subscribers (
			email TEXT PRIMARY KEY,
			subscribed_at TEXT NOT NULL
		)`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to ensure subscribers table: %w", err)
	}
	return nil
}

// Name identifies the backend for the debug surface.
func (s *SQLStore) Name() string {
	if s.useTurso {
		return "turso"
	}
	return "sqlite"
}

// GetAll returns every subscriber, newest first.
func (s *SQLStore) GetAll(ctx context.Context) ([]newsletter.Subscriber, error) {
	const query = `
		SELECT email, subscribed_at
		FROM newsletter_subscribers
		ORDER BY subscribed_at DESC`

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Database().Error("Failed to load subscribers", "error", err.Error(), "backend", s.Name())
		return nil, err
	}
	defer rows.Close()

	var subs []newsletter.Subscriber
	for rows.Next() {
		var email, subscribedAt string
		if err := rows.Scan(&email, &subscribedAt); err != nil {
			return nil, err
		}
		ts, err := parseTimestamp(subscribedAt)
		if err != nil {
			return nil, err
		}
		subs = append(subs, newsletter.Subscriber{Email: email, SubscribedAt: ts})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	s.logger.Database().Debug("Subscribers loaded", "count", len(subs), "backend", s.Name(), "duration", duration)
	if duration > config.SlowQueryThreshold {
		s.logger.LogSlowQuery(query, duration, s.Name())
	}
	return subs, nil
}

// Add inserts a subscriber, returning false when the email already exists.
func (s *SQLStore) Add(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	const existsQuery = `SELECT email FROM newsletter_subscribers WHERE email = ? LIMIT 1`
	var found string
	err := s.db.QueryRowContext(ctx, existsQuery, email).Scan(&found)
	if err == nil {
		s.logger.Database().Debug("Subscriber already exists", "email", email, "backend", s.Name())
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, err
	}

	const insertQuery = `INSERT INTO newsletter_subscribers (email, subscribed_at) VALUES (?, ?)`
	start := time.Now()
	_, err = s.db.ExecContext(ctx, insertQuery, email, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		// A concurrent insert can still hit the primary key.
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return false, nil
		}
		s.logger.Database().Error("Subscriber insert failed", "error", err.Error(), "email", email, "backend", s.Name())
		return false, err
	}

	duration := time.Since(start)
	s.logger.Database().Info("Subscriber insert completed", "email", email, "backend", s.Name(), "duration", duration)
	if duration > config.SlowQueryThreshold {
		s.logger.LogSlowQuery(insertQuery, duration, s.Name())
	}
	return true, nil
}

// Remove deletes a subscriber, returning false when it was not present.
func (s *SQLStore) Remove(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	const query = `DELETE FROM newsletter_subscribers WHERE email = ?`
	result, err := s.db.ExecContext(ctx, query, email)
	if err != nil {
		s.logger.Database().Error("Subscriber delete failed", "error", err.Error(), "email", email, "backend", s.Name())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		s.logger.Database().Debug("Subscriber not found for delete", "email", email, "backend", s.Name())
		return false, nil
	}
	s.logger.Database().Info("Subscriber removed", "email", email, "backend", s.Name())
	return true, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Legacy rows used a plain datetime format.
		ts, err = time.Parse("2006-01-02 15:04:05", value)
		if err != nil {
			return time.Time{}, err
		}
	}
	return ts, nil
}
