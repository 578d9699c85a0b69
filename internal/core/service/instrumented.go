package service

import (
	"context"
	"errors"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

// InstrumentedStore counts backend failures per table and operation.
// Not-found and validation outcomes are answers, not failures.
type InstrumentedStore struct {
	ports.TableStore
	metrics ports.Metrics
}

// NewInstrumentedStore wraps store. A nil metrics sink is replaced by a no-op.
func NewInstrumentedStore(store ports.TableStore, metrics ports.Metrics) *InstrumentedStore {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &InstrumentedStore{TableStore: store, metrics: metrics}
}

func (s *InstrumentedStore) Select(ctx context.Context, q ports.Query) ([]schema.Row, error) {
	rows, err := s.TableStore.Select(ctx, q)
	s.record(q.Table, "select", err)
	return rows, err
}

func (s *InstrumentedStore) Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error) {
	out, err := s.TableStore.Insert(ctx, table, row)
	s.record(table, "insert", err)
	return out, err
}

func (s *InstrumentedStore) Update(ctx context.Context, table string, id int64, patch schema.Row) (schema.Row, error) {
	out, err := s.TableStore.Update(ctx, table, id, patch)
	s.record(table, "update", err)
	return out, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, q ports.Query) (int64, error) {
	n, err := s.TableStore.Delete(ctx, q)
	s.record(q.Table, "delete", err)
	return n, err
}

func (s *InstrumentedStore) record(table, op string, err error) {
	if err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return
	}
	s.metrics.StoreError(table, op)
}
