// Package source is the relational collaborator of the pipelines: it turns
// connection parameters into a MySQL connection and query results into tables.
package source

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"

	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/frame"
	"wranglecli/internal/infrastructure"
)

// pingTimeout bounds the connectivity check made by Open
const pingTimeout = 10 * time.Second

// Source runs a query and returns the full result set as a table
type Source interface {
	Query(ctx context.Context, query string) (*frame.Table, error)
}

// MySQL is a Source backed by a single MySQL database
type MySQL struct {
	db       *sql.DB
	database string
	logger   *slog.Logger
}

// DSN builds the driver locator for one database of the configured server
func DSN(cfg config.DatabaseConfig, database string) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host
	mc.DBName = database
	return mc.FormatDSN()
}

// Open validates the connection parameters, then connects and pings the
// database. Missing parameters fail before any network call.
func Open(ctx context.Context, cfg config.DatabaseConfig, database string) (*MySQL, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if database == "" {
		return nil, apperrors.NewConfigError("database name is required", nil)
	}

	db, err := sql.Open("mysql", DSN(cfg, database))
	if err != nil {
		return nil, apperrors.NewConfigError("invalid database locator", err)
	}
	db.SetMaxOpenConns(1)

	return connect(ctx, db, database)
}

// connect pings db and wraps it; db is closed when the ping fails
func connect(ctx context.Context, db *sql.DB, database string) (*MySQL, error) {
	logger := infrastructure.WithComponent(infrastructure.GetLogger(), "source")

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, apperrors.NewSourceUnavailableError("database unreachable", err).
			WithContext("database", database)
	}

	logger.InfoContext(ctx, "database connection established", slog.String("database", database))
	return &MySQL{db: db, database: database, logger: logger}, nil
}

// Query runs query and materializes every row
func (m *MySQL) Query(ctx context.Context, query string) (*frame.Table, error) {
	start := time.Now()

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewSourceUnavailableError("query failed", err).
			WithContext("database", m.database)
	}
	defer rows.Close()

	t, err := frame.FromSQL(rows)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read query result", err).
			WithContext("database", m.database)
	}

	m.logger.InfoContext(ctx, "query complete",
		slog.String("database", m.database),
		slog.Int("rows", t.Len()),
		slog.Int("columns", t.Width()),
		slog.Duration("duration", time.Since(start)))
	return t, nil
}

// Close releases the connection
func (m *MySQL) Close() error {
	return m.db.Close()
}
