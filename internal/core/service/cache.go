package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

// CachedStore serves repeated selects from a ListCache and moves a table to
// a new cache version after every write to it. A read that started before the
// write stores its rows under the old version, where no later read looks.
// Cache failures are logged and bypassed; they never fail a request.
type CachedStore struct {
	ports.TableStore
	cache ports.ListCache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedStore wraps store. Entries live for ttl; a ttl of zero keeps them
// until the cache evicts them.
func NewCachedStore(store ports.TableStore, cache ports.ListCache, ttl time.Duration, log zerolog.Logger) *CachedStore {
	return &CachedStore{TableStore: store, cache: cache, ttl: ttl, log: log}
}

func (s *CachedStore) Select(ctx context.Context, q ports.Query) ([]schema.Row, error) {
	version, err := s.cache.Version(ctx, q.Table)
	if err != nil {
		s.log.Warn().Err(err).Str("table", q.Table).Msg("list cache version read failed")
		return s.TableStore.Select(ctx, q)
	}
	key := q.Key() + "@" + strconv.FormatInt(version, 10)

	rows, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("table", q.Table).Msg("list cache read failed")
	} else if ok {
		return rows, nil
	}

	rows, err = s.TableStore.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, q.Table, key, rows, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("table", q.Table).Msg("list cache write failed")
	}
	return rows, nil
}

func (s *CachedStore) Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error) {
	defer s.invalidate(ctx, table)
	return s.TableStore.Insert(ctx, table, row)
}

func (s *CachedStore) Update(ctx context.Context, table string, id int64, patch schema.Row) (schema.Row, error) {
	defer s.invalidate(ctx, table)
	return s.TableStore.Update(ctx, table, id, patch)
}

func (s *CachedStore) Delete(ctx context.Context, q ports.Query) (int64, error) {
	defer s.invalidate(ctx, q.Table)
	return s.TableStore.Delete(ctx, q)
}

func (s *CachedStore) invalidate(ctx context.Context, table string) {
	if err := s.cache.InvalidateTable(ctx, table); err != nil {
		s.log.Warn().Err(err).Str("table", table).Msg("list cache invalidation failed")
	}
}
