// Package postgres stores dashboard tables in PostgreSQL through gorm. Rows
// travel as generic maps so historical column names survive untouched.
package postgres

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

const defaultTimeout = 10 * time.Second

// Open connects gorm to dsn with its own logging silenced.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	return db, nil
}

type TableStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewTableStore(db *gorm.DB) *TableStore {
	return &TableStore{db: db, timeout: defaultTimeout}
}

func (s *TableStore) Select(ctx context.Context, q ports.Query) ([]schema.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sql, args := buildSelect(q)
	var out []map[string]any
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&out).Error; err != nil {
		return nil, domain.Unavailable("postgres select "+q.Table, err)
	}
	rows := make([]schema.Row, 0, len(out))
	for _, r := range out {
		rows = append(rows, normalize(r))
	}
	return rows, nil
}

func (s *TableStore) Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cols := sortedKeys(row)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		placeholders[i] = "?"
		args[i] = row[c]
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	out := map[string]any{}
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&out).Error; err != nil {
		return nil, domain.Unavailable("postgres insert "+table, err)
	}
	return normalize(out), nil
}

func (s *TableStore) Update(ctx context.Context, table string, id int64, patch schema.Row) (schema.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sql, args, ok := buildUpdate(table, id, patch)
	if !ok {
		return nil, &domain.ValidationError{Message: "empty update"}
	}
	out := map[string]any{}
	res := s.db.WithContext(ctx).Raw(sql, args...).Scan(&out)
	if res.Error != nil {
		return nil, domain.Unavailable("postgres update "+table, res.Error)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s %d: %w", table, id, domain.ErrNotFound)
	}
	return normalize(out), nil
}

func (s *TableStore) Delete(ctx context.Context, q ports.Query) (int64, error) {
	if err := q.CheckDelete(); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	where, args := buildWhere(q.Filters)
	res := s.db.WithContext(ctx).Exec("DELETE FROM "+quoteIdent(q.Table)+where, args...)
	if res.Error != nil {
		return 0, domain.Unavailable("postgres delete "+q.Table, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *TableStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func buildSelect(q ports.Query) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		b.WriteString("*")
	} else {
		cols := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			cols[i] = quoteIdent(c)
		}
		b.WriteString(strings.Join(cols, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(q.Table))

	where, args := buildWhere(q.Filters)
	b.WriteString(where)

	if len(q.Orders) > 0 {
		parts := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			dir := "DESC"
			if o.Asc {
				dir = "ASC"
			}
			parts[i] = quoteIdent(o.Field) + " " + dir + " NULLS LAST"
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}
	if q.Max > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Max)
	}
	return b.String(), args
}

func buildWhere(filters []ports.Filter) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		col := quoteIdent(f.Field)
		switch f.Op {
		case ports.OpEq:
			if f.Value == nil {
				conds = append(conds, col+" IS NULL")
				continue
			}
			conds = append(conds, col+" = ?")
		case ports.OpIEq:
			conds = append(conds, "LOWER("+col+") = LOWER(?)")
		case ports.OpIn:
			vs, _ := f.Value.([]any)
			if len(vs) == 0 {
				conds = append(conds, "FALSE")
				continue
			}
			conds = append(conds, col+" IN ?")
		case ports.OpGte:
			conds = append(conds, col+" >= ?")
		case ports.OpLte:
			conds = append(conds, col+" <= ?")
		default:
			continue
		}
		args = append(args, f.Value)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildUpdate(table string, id int64, patch schema.Row) (string, []any, bool) {
	cols := sortedKeys(patch)
	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, c := range cols {
		if c == "id" {
			continue
		}
		sets = append(sets, quoteIdent(c)+" = ?")
		args = append(args, patch[c])
	}
	if len(sets) == 0 {
		return "", nil, false
	}
	args = append(args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ? RETURNING *",
		quoteIdent(table), strings.Join(sets, ", "), quoteIdent("id"))
	return sql, args, true
}

// quoteIdent quotes a table or column name so mixed-case names keep their
// case.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sortedKeys(r schema.Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// normalize turns driver values into the plain types the resolver coerces.
func normalize(in map[string]any) schema.Row {
	row := make(schema.Row, len(in))
	for k, v := range in {
		switch x := v.(type) {
		case []byte:
			row[k] = string(x)
		case int32:
			row[k] = int64(x)
		case time.Time:
			row[k] = x.UTC()
		default:
			row[k] = v
		}
	}
	return row
}
