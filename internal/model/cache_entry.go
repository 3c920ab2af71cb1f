package model

import "time"

// CacheEntry describes a stored offline asset without its payload
type CacheEntry struct {
	ID        string    `json:"id"`
	CacheName string    `json:"cache_name"`
	URL       string    `json:"url"`
	Size      int       `json:"size"`
	StoredAt  time.Time `json:"stored_at"`
}
