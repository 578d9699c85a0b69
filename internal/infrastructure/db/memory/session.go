package memory

import (
	"context"
	"sync"
	"time"

	"github.com/steelvault/project-dashboard/internal/core/schema"
)

type entry struct {
	blob    []byte
	expires time.Time
}

// SessionStore keeps one session blob per profile.
type SessionStore struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{data: make(map[string]entry), now: time.Now}
}

func (s *SessionStore) Get(_ context.Context, profile string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[profile]
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.data, profile)
		return nil, nil
	}
	return append([]byte(nil), e.blob...), nil
}

func (s *SessionStore) Put(_ context.Context, profile string, blob []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{blob: append([]byte(nil), blob...)}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.data[profile] = e
	return nil
}

func (s *SessionStore) Delete(_ context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, profile)
	return nil
}

// Len reports how many sessions are stored.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

type cached struct {
	table   string
	rows    []schema.Row
	expires time.Time
}

// ListCache is an in-process ports.ListCache. Invalidating a table also
// evicts its entries, so superseded versions do not accumulate.
type ListCache struct {
	mu       sync.Mutex
	data     map[string]cached
	versions map[string]int64
	now      func() time.Time
}

func NewListCache() *ListCache {
	return &ListCache{data: make(map[string]cached), versions: make(map[string]int64), now: time.Now}
}

func (c *ListCache) Version(_ context.Context, table string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[table], nil
}

func (c *ListCache) Get(_ context.Context, key string) ([]schema.Row, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.data, key)
		return nil, false, nil
	}
	return cloneRows(e.rows), true, nil
}

func (c *ListCache) Set(_ context.Context, table, key string, rows []schema.Row, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := cached{table: table, rows: cloneRows(rows)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.data[key] = e
	return nil
}

func (c *ListCache) InvalidateTable(_ context.Context, table string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[table]++
	for k, e := range c.data {
		if e.table == table {
			delete(c.data, k)
		}
	}
	return nil
}

func cloneRows(rows []schema.Row) []schema.Row {
	out := make([]schema.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
