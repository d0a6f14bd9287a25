package sqlstore

import (
	"context"
	"database/sql"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"                  // PostgreSQL driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type dialect struct {
	name     string
	driver   string
	numbered bool // $1, $2 placeholders instead of ?
}

var (
	dialectSQLite   = dialect{name: "SQLite", driver: "sqlite"}
	dialectLibSQL   = dialect{name: "libSQL", driver: "libsql"}
	dialectPostgres = dialect{name: "PostgreSQL", driver: "pgx", numbered: true}
)

// Store is the single persistence handle shared by all services. It is
// constructed once and passed in explicitly.
type Store struct {
	db      *sql.DB
	dialect dialect
	dbURL   string
}

func detectDialect(dbURL string) dialect {
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return dialectPostgres
	case strings.Contains(dbURL, "libsql://"), strings.Contains(dbURL, "wss://"):
		return dialectLibSQL
	default:
		return dialectSQLite
	}
}

func New(ctx context.Context, dbURL string) (*Store, error) {
	d := detectDialect(dbURL)

	db, err := sql.Open(d.driver, dbURL)
	if err != nil {
		return nil, err
	}

	if d == dialectSQLite {
		// A single connection serializes writers and keeps shared-cache
		// memory databases consistent.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, dialect: d, dbURL: dbURL}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sites (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon_url TEXT NOT NULL DEFAULT '',
		is_published BOOLEAN NOT NULL DEFAULT FALSE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL,
		deleted_at BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sites_category_id ON sites(category_id)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id TEXT PRIMARY KEY,
		site_id TEXT NOT NULL REFERENCES sites(id),
		ip_address TEXT,
		user_agent TEXT,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_created_at ON visits(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_site_id ON visits(site_id)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS system_settings (
		id TEXT PRIMARY KEY,
		site_name TEXT NOT NULL,
		site_description TEXT NOT NULL DEFAULT '',
		site_keywords TEXT NOT NULL DEFAULT '',
		footer_text TEXT NOT NULL DEFAULT '',
		updated_at BIGINT NOT NULL
	)`,
}

// migrate is idempotent; statements run one at a time so every driver accepts them
func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DatabaseInfo describes the connection from DATABASE_URL, never including the password
func (s *Store) DatabaseInfo() domain.DatabaseInfo {
	info := domain.DatabaseInfo{Type: s.dialect.name}

	switch s.dialect {
	case dialectSQLite:
		path := strings.TrimPrefix(s.dbURL, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		info.Database = path
	default:
		u, err := url.Parse(s.dbURL)
		if err != nil {
			return info
		}
		info.Host = u.Hostname()
		if port, err := strconv.Atoi(u.Port()); err == nil {
			info.Port = port
		}
		info.Database = strings.TrimPrefix(u.Path, "/")
		if u.User != nil {
			info.Username = u.User.Username()
		}
	}
	return info
}

// rebind rewrites ? placeholders for dialects that number them
func (s *Store) rebind(query string) string {
	if !s.dialect.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Ensure interface compliance
var (
	_ ports.CatalogRepository  = (*Store)(nil)
	_ ports.VisitRepository    = (*Store)(nil)
	_ ports.UserRepository     = (*Store)(nil)
	_ ports.SettingsRepository = (*Store)(nil)
	_ ports.DatabaseInspector  = (*Store)(nil)
)
