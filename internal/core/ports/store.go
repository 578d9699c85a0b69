package ports

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

// Op is a filter operator understood by every TableStore.
type Op string

const (
	OpEq  Op = "eq"
	OpIEq Op = "ieq" // case-insensitive string equality
	OpIn  Op = "in"
	OpGte Op = "gte"
	OpLte Op = "lte"
)

// Filter restricts a query to rows whose Field satisfies Op against Value.
// For OpIn, Value is a []any.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Order sorts results by Field.
type Order struct {
	Field string
	Asc   bool
}

// Query describes a read (or the row set of a delete) against one table.
// Builder methods return modified copies, so a base query can be shared.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Orders  []Order
	Max     int
}

// From starts a query on table.
func From(table string) Query {
	return Query{Table: table}
}

// Select restricts the returned columns. No columns means all of them.
func (q Query) Select(cols ...string) Query {
	q.Columns = append(slices.Clip(q.Columns), cols...)
	return q
}

func (q Query) where(field string, op Op, v any) Query {
	q.Filters = append(slices.Clip(q.Filters), Filter{Field: field, Op: op, Value: v})
	return q
}

func (q Query) Eq(field string, v any) Query  { return q.where(field, OpEq, v) }
func (q Query) IEq(field, v string) Query      { return q.where(field, OpIEq, v) }
func (q Query) Gte(field string, v any) Query { return q.where(field, OpGte, v) }
func (q Query) Lte(field string, v any) Query { return q.where(field, OpLte, v) }

// In matches rows whose field equals any of vs.
func (q Query) In(field string, vs ...any) Query {
	return q.where(field, OpIn, vs)
}

// Order appends a sort key.
func (q Query) Order(field string, asc bool) Query {
	q.Orders = append(slices.Clip(q.Orders), Order{Field: field, Asc: asc})
	return q
}

// Limit caps the number of returned rows. Zero means no cap.
func (q Query) Limit(n int) Query {
	q.Max = n
	return q
}

// Key renders the query as a stable string, used as a cache key.
func (q Query) Key() string {
	var b strings.Builder
	b.WriteString(q.Table)
	b.WriteString("|")
	b.WriteString(strings.Join(q.Columns, ","))
	for _, f := range q.Filters {
		fmt.Fprintf(&b, "|%s:%s:%v", f.Field, f.Op, f.Value)
	}
	for _, o := range q.Orders {
		fmt.Fprintf(&b, "|o:%s:%t", o.Field, o.Asc)
	}
	fmt.Fprintf(&b, "|l:%d", q.Max)
	return b.String()
}

// CheckDelete rejects deletes that would match a whole table.
func (q Query) CheckDelete() error {
	if q.Table == "" {
		return &domain.ValidationError{Field: "table", Message: "is required"}
	}
	if len(q.Filters) == 0 {
		return &domain.ValidationError{Field: "filters", Message: "delete without filters is not allowed"}
	}
	return nil
}

// TableStore is the loosely-typed table backend. Transport and backend
// failures are wrapped so they match domain.ErrBackendUnavailable. An empty
// result is not an error.
type TableStore interface {
	Select(ctx context.Context, q Query) ([]schema.Row, error)
	// Insert stores row and returns it as persisted, id included.
	Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error)
	// Update applies patch to the row with the given id. It returns
	// domain.ErrNotFound when no such row exists.
	Update(ctx context.Context, table string, id int64, patch schema.Row) (schema.Row, error)
	// Delete removes the rows matched by q's filters and reports how many.
	Delete(ctx context.Context, q Query) (int64, error)
	Ping(ctx context.Context) error
}

// SessionStore persists one serialized session per profile under a fixed key.
type SessionStore interface {
	// Get returns nil, nil when the profile holds no session.
	Get(ctx context.Context, profile string) ([]byte, error)
	// Put replaces the profile's session. A ttl of zero never expires.
	Put(ctx context.Context, profile string, blob []byte, ttl time.Duration) error
	Delete(ctx context.Context, profile string) error
}

// ListCache keeps fetched row lists per query key. Each table carries a
// version that InvalidateTable bumps; callers fold it into their keys so
// entries written for an older version are never read again and simply age
// out with their ttl.
type ListCache interface {
	Version(ctx context.Context, table string) (int64, error)
	Get(ctx context.Context, key string) ([]schema.Row, bool, error)
	Set(ctx context.Context, table, key string, rows []schema.Row, ttl time.Duration) error
	InvalidateTable(ctx context.Context, table string) error
}
