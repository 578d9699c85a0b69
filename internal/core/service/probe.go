package service

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

// FirstAvailable runs q against each candidate table in order and returns
// the rows of the first one that answers with data, plus that table's name.
// Empty answers fall through. An error is returned only when every candidate
// failed.
//
// Lookups of display names still go through it for deployments whose
// client and user tables predate the declared schema.
func FirstAvailable(ctx context.Context, store ports.TableStore, candidates []string, q ports.Query) ([]schema.Row, string, error) {
	var lastErr error
	answered := false
	for _, table := range candidates {
		q.Table = table
		rows, err := store.Select(ctx, q)
		if err != nil {
			lastErr = err
			continue
		}
		answered = true
		if len(rows) > 0 {
			return rows, table, nil
		}
	}
	if answered || lastErr == nil {
		return nil, "", nil
	}
	return nil, "", lastErr
}

// lookupNames resolves display names for ids of entity e, probing the
// entity's candidate tables. Ids with no row are missing from the result and
// a failed lookup yields an empty map.
func lookupNames(ctx context.Context, store ports.TableStore, r *schema.Resolver, log zerolog.Logger, e schema.Entity, ids []string, name func(schema.Row) string) map[string]string {
	out := map[string]string{}
	if len(ids) == 0 {
		return out
	}
	vals := make([]any, 0, len(ids))
	for _, id := range ids {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			vals = append(vals, n)
		}
	}
	rows, table, err := FirstAvailable(ctx, store, r.Tables(e), ports.Query{}.In("id", vals...))
	if err != nil {
		log.Warn().Err(err).Str("entity", string(e)).Msg("name lookup failed on every candidate table")
		return out
	}
	if table != "" && table != r.Table(e) {
		log.Debug().Str("entity", string(e)).Str("table", table).Msg("names resolved from fallback table")
	}
	for _, row := range rows {
		if id, ok := r.Int64(e, row, "id"); ok {
			out[strconv.FormatInt(id, 10)] = name(row)
		}
	}
	return out
}
