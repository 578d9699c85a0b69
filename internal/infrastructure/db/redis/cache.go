package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/steelvault/project-dashboard/internal/core/schema"
)

// ListCache stores JSON-encoded row lists under their own ttl. A write bumps
// the table's version counter; entries keyed with an older version are left
// to expire.
//
// Key format: rows:<sha1 of query key>, version rows:version:<table>
type ListCache struct {
	client redis.Cmdable
}

func NewListCache(client redis.Cmdable) *ListCache {
	return &ListCache{client: client}
}

// Version returns 0 for a table that was never invalidated.
func (c *ListCache) Version(ctx context.Context, table string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(table)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache version: %w", err)
	}
	return v, nil
}

func (c *ListCache) Get(ctx context.Context, key string) ([]schema.Row, bool, error) {
	b, err := c.client.Get(ctx, rowsKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	rows, err := decodeRows(b)
	if err != nil {
		return nil, false, err
	}
	return rows, true, nil
}

func (c *ListCache) Set(ctx context.Context, _ string, key string, rows []schema.Row, ttl time.Duration) error {
	b, err := encodeRows(rows)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, rowsKey(key), b, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *ListCache) InvalidateTable(ctx context.Context, table string) error {
	if err := c.client.Incr(ctx, versionKey(table)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func rowsKey(queryKey string) string {
	sum := sha1.Sum([]byte(queryKey))
	return "rows:" + hex.EncodeToString(sum[:])
}

func versionKey(table string) string {
	return "rows:version:" + table
}

// Times come back as RFC 3339 strings and numbers as float64; the resolver
// coerces both.
func encodeRows(rows []schema.Row) ([]byte, error) {
	if rows == nil {
		rows = []schema.Row{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	return b, nil
}

func decodeRows(b []byte) ([]schema.Row, error) {
	var rows []schema.Row
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}
