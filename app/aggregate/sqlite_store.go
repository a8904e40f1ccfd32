package aggregate

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteStore is the persistent Store implementation. When enabled, item
// provenance and timestamps merge across runs instead of being rebuilt from
// scratch.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Get(key string) (*Item, bool) {
	var item Item
	var sources, provenance []byte

	err := s.db.QueryRow(`
		SELECT key, guid, title, excerpt, updated_at, sources, provenance
		FROM items WHERE key = ?
	`, key).Scan(&item.Key, &item.GUID, &item.Title, &item.Excerpt,
		&item.UpdatedAt, &sources, &provenance)
	if err != nil {
		return nil, false
	}

	if err := json.Unmarshal(sources, &item.Sources); err != nil {
		return nil, false
	}
	if err := json.Unmarshal(provenance, &item.Provenance); err != nil {
		return nil, false
	}

	return &item, true
}

func (s *SQLiteStore) Put(key string, item *Item) error {
	sources, err := json.Marshal(item.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}
	provenance, err := json.Marshal(item.Provenance)
	if err != nil {
		return fmt.Errorf("failed to encode provenance: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO items (key, guid, title, excerpt, updated_at, sources, provenance)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			title = excluded.title,
			excerpt = excluded.excerpt,
			updated_at = excluded.updated_at,
			sources = excluded.sources,
			provenance = excluded.provenance
	`, item.Key, item.GUID, item.Title, item.Excerpt, item.UpdatedAt, sources, provenance)
	if err != nil {
		return fmt.Errorf("failed to store item: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Len() int {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0
	}
	return count
}

func (s *SQLiteStore) All() ([]*Item, error) {
	rows, err := s.db.Query(`
		SELECT key, guid, title, excerpt, updated_at, sources, provenance
		FROM items
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var item Item
		var sources, provenance []byte
		if err := rows.Scan(&item.Key, &item.GUID, &item.Title, &item.Excerpt,
			&item.UpdatedAt, &sources, &provenance); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if err := json.Unmarshal(sources, &item.Sources); err != nil {
			return nil, fmt.Errorf("failed to decode sources: %w", err)
		}
		if err := json.Unmarshal(provenance, &item.Provenance); err != nil {
			return nil, fmt.Errorf("failed to decode provenance: %w", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
