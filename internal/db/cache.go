package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/luccascomvoce/temporizador/internal/model"
)

const upsertCacheEntry = `
	INSERT INTO cache_entries (id, cache_name, url, entry, stored_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(cache_name, url) DO UPDATE SET entry = excluded.entry, stored_at = excluded.stored_at
`

// PutCacheEntry stores an encoded entry for url in the named cache
func (db *DB) PutCacheEntry(cacheName, url string, entry []byte) error {
	_, err := db.Exec(upsertCacheEntry, uuid.New().String(), cacheName, url, entry, time.Now())
	return err
}

// PutCacheEntries stores every entry in one transaction; nothing is written
// if any insert fails
func (db *DB) PutCacheEntries(cacheName string, entries map[string][]byte) error {
	return db.Transaction(func(tx *sql.Tx) error {
		now := time.Now()
		for url, entry := range entries {
			if _, err := tx.Exec(upsertCacheEntry, uuid.New().String(), cacheName, url, entry, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// MatchCacheEntry returns the encoded entry for url. ok is false on a miss.
func (db *DB) MatchCacheEntry(cacheName, url string) ([]byte, bool, error) {
	var entry []byte
	err := db.QueryRow(`SELECT entry FROM cache_entries WHERE cache_name = ? AND url = ?`,
		cacheName, url).Scan(&entry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// CacheNames returns every cache name that holds at least one entry
func (db *DB) CacheNames() ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT cache_name FROM cache_entries ORDER BY cache_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteCache removes every entry of the named cache
func (db *DB) DeleteCache(cacheName string) error {
	_, err := db.Exec(`DELETE FROM cache_entries WHERE cache_name = ?`, cacheName)
	return err
}

// ListCacheEntries returns entry metadata. An empty name lists every cache.
func (db *DB) ListCacheEntries(cacheName string) ([]model.CacheEntry, error) {
	rows, err := db.Query(`
		SELECT id, cache_name, url, length(entry), stored_at
		FROM cache_entries
		WHERE ? = '' OR cache_name = ?
		ORDER BY cache_name, url
	`, cacheName, cacheName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.CacheEntry
	for rows.Next() {
		var e model.CacheEntry
		if err := rows.Scan(&e.ID, &e.CacheName, &e.URL, &e.Size, &e.StoredAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
