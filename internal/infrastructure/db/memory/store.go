// Package memory provides in-process implementations of the storage ports.
// They back local development (STORE_DRIVER=memory) and the service tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

// Store is a mutex-guarded TableStore. Rows get a sequential numeric id per
// table unless one is supplied.
type Store struct {
	mu     sync.RWMutex
	tables map[string][]schema.Row
	seq    map[string]int64
	faults map[string]error
}

func NewStore() *Store {
	return &Store{
		tables: make(map[string][]schema.Row),
		seq:    make(map[string]int64),
		faults: make(map[string]error),
	}
}

// Seed appends rows to table as-is, advancing the id sequence past any
// explicit ids.
func (s *Store) Seed(table string, rows ...schema.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.put(table, r.Clone())
	}
}

// Fail makes every op ("select", "insert", "update", "delete") on table return
// err wrapped as a backend failure. A nil err clears the fault.
func (s *Store) Fail(op, table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op+":"+table)
		return
	}
	s.faults[op+":"+table] = err
}

// Rows returns a copy of every row in table.
func (s *Store) Rows(table string) []schema.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schema.Row, 0, len(s.tables[table]))
	for _, r := range s.tables[table] {
		out = append(out, r.Clone())
	}
	return out
}

func (s *Store) fault(op, table string) error {
	if err, ok := s.faults[op+":"+table]; ok {
		return domain.Unavailable(op+" "+table, err)
	}
	return nil
}

func (s *Store) put(table string, r schema.Row) schema.Row {
	if id, ok := schema.ToInt64(r["id"]); ok {
		if id > s.seq[table] {
			s.seq[table] = id
		}
	} else {
		s.seq[table]++
		r["id"] = s.seq[table]
	}
	s.tables[table] = append(s.tables[table], r)
	return r
}

func (s *Store) Select(ctx context.Context, q ports.Query) ([]schema.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Unavailable("select "+q.Table, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fault("select", q.Table); err != nil {
		return nil, err
	}

	var out []schema.Row
	for _, r := range s.tables[q.Table] {
		if matches(r, q.Filters) {
			out = append(out, r)
		}
	}
	if len(q.Orders) > 0 {
		slices.SortStableFunc(out, func(a, b schema.Row) int {
			for _, o := range q.Orders {
				av, bv := a[o.Field], b[o.Field]
				if av == nil || bv == nil {
					if c := compare(av, bv); c != 0 {
						return c
					}
					continue
				}
				c := compare(av, bv)
				if !o.Asc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}
	if q.Max > 0 && len(out) > q.Max {
		out = out[:q.Max]
	}

	res := make([]schema.Row, 0, len(out))
	for _, r := range out {
		res = append(res, project(r, q.Columns))
	}
	return res, nil
}

func (s *Store) Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Unavailable("insert "+table, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("insert", table); err != nil {
		return nil, err
	}
	stored := s.put(table, row.Clone())
	return stored.Clone(), nil
}

func (s *Store) Update(ctx context.Context, table string, id int64, patch schema.Row) (schema.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Unavailable("update "+table, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("update", table); err != nil {
		return nil, err
	}
	for _, r := range s.tables[table] {
		if rid, ok := schema.ToInt64(r["id"]); ok && rid == id {
			for k, v := range patch {
				if k == "id" {
					continue
				}
				r[k] = v
			}
			return r.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, q ports.Query) (int64, error) {
	if err := q.CheckDelete(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, domain.Unavailable("delete "+q.Table, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("delete", q.Table); err != nil {
		return 0, err
	}
	rows := s.tables[q.Table]
	kept := rows[:0]
	var n int64
	for _, r := range rows {
		if matches(r, q.Filters) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.tables[q.Table] = kept
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func project(r schema.Row, cols []string) schema.Row {
	if len(cols) == 0 {
		return r.Clone()
	}
	out := make(schema.Row, len(cols))
	for _, c := range cols {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	return out
}

func matches(r schema.Row, filters []ports.Filter) bool {
	for _, f := range filters {
		v := r[f.Field]
		switch f.Op {
		case ports.OpEq:
			if !equal(v, f.Value) {
				return false
			}
		case ports.OpIEq:
			if v == nil || !strings.EqualFold(schema.ToString(v), schema.ToString(f.Value)) {
				return false
			}
		case ports.OpIn:
			vs, _ := f.Value.([]any)
			if !slices.ContainsFunc(vs, func(x any) bool { return equal(v, x) }) {
				return false
			}
		case ports.OpGte:
			if v == nil || compare(v, f.Value) < 0 {
				return false
			}
		case ports.OpLte:
			if v == nil || compare(v, f.Value) > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return compare(a, b) == 0
}

// compare orders loosely-typed values: times, then numbers, then text. nil
// sorts last, in either direction.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if ta, ok := schema.ToTime(a); ok {
		if tb, ok := schema.ToTime(b); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := schema.ToFloat(a); ok {
		if fb, ok := schema.ToFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	return strings.Compare(schema.ToString(a), schema.ToString(b))
}
