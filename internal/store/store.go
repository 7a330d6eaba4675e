// Package store persists serialized map documents in a local SQLite file,
// keyed by map name. Documents are opaque JSON blobs to the store.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"hexcarta/internal/world"
)

// ErrNotFound reports a key with no stored document.
var ErrNotFound = errors.New("not found")

// MapInfo summarizes one stored map for listings.
type MapInfo struct {
	Key       string `db:"key"`
	Bytes     int64  `db:"bytes"`
	UpdatedAt int64  `db:"updated_at"`
}

// Updated returns the last-write time.
func (m MapInfo) Updated() time.Time { return time.Unix(m.UpdatedAt, 0) }

// Store wraps the SQLite connection holding all saved maps.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the map database at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		key TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		bytes INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// Save serializes the document and upserts it under key.
func (st *Store) Save(key string, doc *world.Document) error {
	if key == "" {
		return errors.New("empty map key")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	_, err = st.conn.Exec(
		"INSERT OR REPLACE INTO maps (key, doc, bytes, updated_at) VALUES (?, ?, ?, ?)",
		key, string(data), len(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// Load reads and decodes the document stored under key.
func (st *Store) Load(key string) (*world.Document, error) {
	var raw string
	err := st.conn.Get(&raw, "SELECT doc FROM maps WHERE key = ?", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("map %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	var doc world.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	return &doc, nil
}

// Exists reports whether a document is stored under key.
func (st *Store) Exists(key string) (bool, error) {
	var n int
	if err := st.conn.Get(&n, "SELECT COUNT(*) FROM maps WHERE key = ?", key); err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns every stored map, most recently written first.
func (st *Store) List() ([]MapInfo, error) {
	var out []MapInfo
	err := st.conn.Select(&out,
		"SELECT key, bytes, updated_at FROM maps ORDER BY updated_at DESC, key ASC")
	return out, err
}

// Info returns the listing entry for one key.
func (st *Store) Info(key string) (MapInfo, error) {
	var mi MapInfo
	err := st.conn.Get(&mi, "SELECT key, bytes, updated_at FROM maps WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return MapInfo{}, fmt.Errorf("map %q: %w", key, ErrNotFound)
	}
	return mi, err
}

// Delete removes the document under key. Deleting an absent key reports
// ErrNotFound.
func (st *Store) Delete(key string) error {
	res, err := st.conn.Exec("DELETE FROM maps WHERE key = ?", key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("map %q: %w", key, ErrNotFound)
	}
	return nil
}

// SaveMeta stores an application-level key-value pair, such as the last
// opened map.
func (st *Store) SaveMeta(key, value string) error {
	_, err := st.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (st *Store) GetMeta(key string) (string, error) {
	var value string
	err := st.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %q: %w", key, ErrNotFound)
	}
	return value, err
}
