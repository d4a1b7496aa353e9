package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thejerf/abtime"
)

// SQLDialect selects placeholder and DDL syntax.
type SQLDialect int

const (
	// DialectPostgreSQL uses $1, $2 placeholders (lib/pq).
	DialectPostgreSQL SQLDialect = iota
	// DialectMySQL uses ? placeholders.
	DialectMySQL
	// DialectSQLite uses ? placeholders.
	DialectSQLite
)

// ParseSQLDialect maps "postgres", "mysql" and "sqlite" to a dialect.
func ParseSQLDialect(name string) (SQLDialect, error) {
	switch name {
	case "", "postgres", "postgresql":
		return DialectPostgreSQL, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return 0, fmt.Errorf("unsupported sql dialect %q", name)
	}
}

// SQLOption configures a [SQLBackend].
type SQLOption func(*sqlBackendConfig)

type sqlBackendConfig struct {
	tableName string
	dialect   SQLDialect
	clock     abtime.AbstractTime
}

// WithSQLTableName sets the session table. Default: "user_sessions".
func WithSQLTableName(name string) SQLOption {
	return func(c *sqlBackendConfig) {
		c.tableName = name
	}
}

// WithSQLDialect sets the dialect. Default: DialectPostgreSQL.
func WithSQLDialect(dialect SQLDialect) SQLOption {
	return func(c *sqlBackendConfig) {
		c.dialect = dialect
	}
}

// WithSQLClock sets the clock used to stamp created_at.
func WithSQLClock(clock abtime.AbstractTime) SQLOption {
	return func(c *sqlBackendConfig) {
		c.clock = clock
	}
}

// SQLBackend keeps session records in a table shaped as:
//
//	CREATE TABLE user_sessions (
//	    session_id VARCHAR(64) PRIMARY KEY,
//	    user_id    VARCHAR(255) NOT NULL,
//	    created_at TIMESTAMP NOT NULL
//	);
//
// Use [SQLBackend.Migrate] to create it.
type SQLBackend struct {
	db        *sql.DB
	tableName string
	dialect   SQLDialect
	clock     abtime.AbstractTime
}

// NewSQLBackend wraps an open *sql.DB.
func NewSQLBackend(db *sql.DB, opts ...SQLOption) *SQLBackend {
	cfg := &sqlBackendConfig{
		tableName: "user_sessions",
		dialect:   DialectPostgreSQL,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = abtime.NewRealTime()
	}

	return &SQLBackend{
		db:        db,
		tableName: cfg.tableName,
		dialect:   cfg.dialect,
		clock:     cfg.clock,
	}
}

func (s *SQLBackend) placeholder(n int) string {
	if s.dialect == DialectPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Migrate creates the session table if it does not exist.
func (s *SQLBackend) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			session_id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}
	return nil
}

// Search returns the rows whose session_id equals token.
func (s *SQLBackend) Search(ctx context.Context, token string) ([]Record, error) {
	query := fmt.Sprintf(
		`SELECT session_id, user_id, created_at FROM %s WHERE session_id = %s`,
		s.tableName, s.placeholder(1),
	)

	rows, err := s.db.QueryContext(ctx, query, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Token, &rec.UserID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}

	return out, nil
}

// Save inserts rec with created_at stamped from the backend clock.
func (s *SQLBackend) Save(ctx context.Context, rec Record) (Record, error) {
	if !rec.Valid() {
		return Record{}, ErrInvalidRecord
	}
	// TIMESTAMP columns keep microseconds.
	rec.CreatedAt = s.clock.Now().UTC().Truncate(time.Microsecond)

	query := fmt.Sprintf(
		`INSERT INTO %s (session_id, user_id, created_at) VALUES (%s, %s, %s)`,
		s.tableName, s.placeholder(1), s.placeholder(2), s.placeholder(3),
	)

	if _, err := s.db.ExecContext(ctx, query, rec.Token, rec.UserID, rec.CreatedAt); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}
	return rec, nil
}

// Remove deletes the row for rec.Token.
func (s *SQLBackend) Remove(ctx context.Context, rec Record) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = %s`, s.tableName, s.placeholder(1))

	if _, err := s.db.ExecContext(ctx, query, rec.Token); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}
	return nil
}
