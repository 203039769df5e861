package cache

import (
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"
	pkgerrors "github.com/pkg/errors"
)

// SQLiteStore keeps slots in a single-table sqlite database, which gives the
// cache one file on disk regardless of how many feeds are tracked.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "error opening the cache database")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS slots (name TEXT PRIMARY KEY, body BLOB NOT NULL)`); err != nil {
		db.Close()
		return nil, pkgerrors.Wrap(err, "error creating the slots table")
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreFromDB wraps an already opened database. The slots table
// must exist.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Write(slot string, data []byte) error {
	if slot == "" {
		return nil
	}

	_, err := s.db.Exec(
		`INSERT INTO slots (name, body) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET body=excluded.body`,
		slot, data,
	)
	if err != nil {
		return pkgerrors.Wrap(err, "error upserting the slot")
	}

	return nil
}

func (s *SQLiteStore) Read(slot string) ([]byte, error) {
	if slot == "" {
		return nil, ErrNotCached
	}

	var body []byte
	row := s.db.QueryRow(`SELECT body FROM slots WHERE name=?`, slot)
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotCached
		}
		return nil, pkgerrors.Wrap(err, "error reading the slot")
	}

	return body, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
