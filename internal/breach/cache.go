package breach

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// CacheRetention is how long a cached lookup result stays valid.
const CacheRetention = 7 * 24 * time.Hour

// PasswordCacheEntry memoizes one password lookup, keyed by the full
// uppercase hex SHA-1 of the password (never by the password itself).
type PasswordCacheEntry struct {
	Breached  bool  `json:"breached"`
	Count     int   `json:"count"`
	Timestamp int64 `json:"timestamp"`
}

// EmailCacheEntry memoizes one email lookup, keyed by the literal email.
type EmailCacheEntry struct {
	Breached  bool     `json:"breached"`
	Breaches  []Breach `json:"breaches"`
	Timestamp int64    `json:"timestamp"`
}

// Cache is the local, time-expiring memo of prior breach-lookup
// results, persisted to a device-local file independent of the vault.
// A read is honored only while the entry is younger than
// CacheRetention; expired entries are purged before use.
type Cache struct {
	Passwords map[string]PasswordCacheEntry `json:"passwords"`
	Emails    map[string]EmailCacheEntry    `json:"emails"`

	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewCache returns a cache backed by the file at path. The file is
// created on first save.
func NewCache(path string) *Cache {
	return &Cache{
		Passwords: make(map[string]PasswordCacheEntry),
		Emails:    make(map[string]EmailCacheEntry),
		path:      path,
		now:       time.Now,
	}
}

// Load reads the persisted cache from disk and drops expired entries.
// A missing file yields an empty cache, not an error.
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(c); err != nil {
		// A corrupt cache file is replaced with a fresh one.
		c.Passwords = make(map[string]PasswordCacheEntry)
		c.Emails = make(map[string]EmailCacheEntry)
		return nil
	}
	if c.Passwords == nil {
		c.Passwords = make(map[string]PasswordCacheEntry)
	}
	if c.Emails == nil {
		c.Emails = make(map[string]EmailCacheEntry)
	}
	c.purgeLocked()
	return nil
}

// Save persists the cache to disk.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked()
}

func (c *Cache) saveLocked() error {
	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(c)
}

// purgeLocked removes entries past the retention window.
func (c *Cache) purgeLocked() {
	cutoff := c.now().Add(-CacheRetention).UnixMilli()
	for hash, e := range c.Passwords {
		if e.Timestamp < cutoff {
			delete(c.Passwords, hash)
		}
	}
	for email, e := range c.Emails {
		if e.Timestamp < cutoff {
			delete(c.Emails, email)
		}
	}
}

// GetPassword returns a valid cached password result, purging it first
// if expired.
func (c *Cache) GetPassword(hashHex string) (PasswordCacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.Passwords[hashHex]
	if !ok {
		return PasswordCacheEntry{}, false
	}
	if c.now().UnixMilli()-e.Timestamp >= CacheRetention.Milliseconds() {
		delete(c.Passwords, hashHex)
		return PasswordCacheEntry{}, false
	}
	return e, true
}

// PutPassword stores a fresh password result and persists the cache.
func (c *Cache) PutPassword(hashHex string, breached bool, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Passwords[hashHex] = PasswordCacheEntry{
		Breached:  breached,
		Count:     count,
		Timestamp: c.now().UnixMilli(),
	}
	return c.saveLocked()
}

// GetEmail returns a valid cached email result, purging it first if
// expired.
func (c *Cache) GetEmail(email string) (EmailCacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.Emails[email]
	if !ok {
		return EmailCacheEntry{}, false
	}
	if c.now().UnixMilli()-e.Timestamp >= CacheRetention.Milliseconds() {
		delete(c.Emails, email)
		return EmailCacheEntry{}, false
	}
	return e, true
}

// PutEmail stores a fresh email result and persists the cache. A
// zero-breach result is cacheable; transport errors must never reach
// this method.
func (c *Cache) PutEmail(email string, breaches []Breach) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Emails[email] = EmailCacheEntry{
		Breached:  len(breaches) > 0,
		Breaches:  breaches,
		Timestamp: c.now().UnixMilli(),
	}
	return c.saveLocked()
}
