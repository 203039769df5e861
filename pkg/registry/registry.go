// Package registry keeps the set of subscribed feed URLs in sqlite so the
// refresh loop knows which caches to keep warm.
package registry

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
	"github.com/piraces/feedstash/pkg/helpers"
	"github.com/piraces/feedstash/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Address is a validated absolute http(s) feed URL.
type Address struct {
	s string
}

func NewAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, errors.New("address can't be an empty string")
	}

	if !helpers.IsValidHttpUrl(s) {
		return Address{}, errors.New("invalid URL provided (must be in absolute format and with http or https scheme)")
	}

	return Address{s: s}, nil
}

func (a Address) String() string {
	return a.s
}

type Registry struct {
	db *sql.DB
}

func New(path string) (*Registry, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening the registry database")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS feeds (url TEXT PRIMARY KEY, added_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "error creating the feeds table")
	}

	return &Registry{db: db}, nil
}

// NewFromDB wraps an already opened database. The feeds table must exist.
func NewFromDB(db *sql.DB) *Registry {
	return &Registry{db: db}
}

// Put registers a feed URL. Registering the same URL twice is a no-op.
func (r *Registry) Put(address Address) error {
	row := r.db.QueryRow(`SELECT url FROM feeds WHERE url=?`, address.String())

	var existing string
	err := row.Scan(&existing)
	if err != nil && err == sql.ErrNoRows {
		if _, err := r.db.Exec(`INSERT INTO feeds (url) VALUES (?)`, address.String()); err != nil {
			metrics.AppErrors.With(prometheus.Labels{"type": "SQL_WRITE"}).Inc()
			return errors.Wrap(err, "error inserting the new feed")
		}
		log.Printf("[DEBUG] saved feed at url %q", address.String())
		return nil
	} else if err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "SQL_SCAN"}).Inc()
		return errors.Wrap(err, "error checking if feed exists")
	}

	log.Printf("[DEBUG] found feed at url %q", address.String())
	return nil
}

func (r *Registry) List() ([]Address, error) {
	rows, err := r.db.Query(`SELECT url FROM feeds ORDER BY url`)
	if err != nil {
		return nil, errors.Wrap(err, "error getting feeds")
	}
	defer rows.Close() // not much we can do here

	var items []Address
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			metrics.AppErrors.With(prometheus.Labels{"type": "SQL_SCAN"}).Inc()
			return nil, errors.Wrap(err, "error scanning the retrieved rows")
		}

		address, err := NewAddress(raw)
		if err != nil {
			return nil, errors.Wrap(err, "error creating address")
		}

		items = append(items, address)
	}

	return items, nil
}

func (r *Registry) CountTotal() (int, error) {
	var count int
	row := r.db.QueryRow(`SELECT count(*) FROM feeds`)
	if err := row.Scan(&count); err != nil {
		return 0, errors.Wrap(err, "error counting feeds")
	}

	return count, nil
}

// Delete removes a feed that keeps failing. Failures are logged only: a
// stale registry row is an annoyance, not a reason to stop serving.
func (r *Registry) Delete(address Address) {
	if _, err := r.db.Exec(`DELETE FROM feeds WHERE url=?`, address.String()); err != nil {
		log.Printf("[ERROR] failure to delete invalid feed: %v", err)
		metrics.AppErrors.With(prometheus.Labels{"type": "SQL_WRITE"}).Inc()
	} else {
		log.Printf("[DEBUG] deleted invalid feed with url %q", address.String())
	}
}

func (r *Registry) Close() error {
	return r.db.Close()
}
