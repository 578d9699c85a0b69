package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
)

const countersCollection = "counters"

// TableStore maps each table onto a collection of the same name. Rows carry
// a numeric "id" assigned from the counters collection; the driver's _id is
// never surfaced.
type TableStore struct {
	db      *mongo.Database
	timeout time.Duration
}

func NewTableStore(db *mongo.Database) *TableStore {
	return &TableStore{db: db, timeout: defaultTimeout}
}

func (s *TableStore) Select(ctx context.Context, q ports.Query) ([]schema.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find()
	if len(q.Orders) > 0 {
		sort := bson.D{}
		for _, o := range q.Orders {
			dir := -1
			if o.Asc {
				dir = 1
			}
			sort = append(sort, bson.E{Key: o.Field, Value: dir})
		}
		opts.SetSort(sort)
	}
	if q.Max > 0 {
		opts.SetLimit(int64(q.Max))
	}
	if len(q.Columns) > 0 {
		proj := bson.M{"_id": 0}
		for _, c := range q.Columns {
			proj[c] = 1
		}
		opts.SetProjection(proj)
	}

	cur, err := s.db.Collection(q.Table).Find(ctx, buildFilter(q.Filters), opts)
	if err != nil {
		return nil, domain.Unavailable("mongo select "+q.Table, err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Unavailable("mongo select "+q.Table, err)
	}
	rows := make([]schema.Row, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, fromDocument(d))
	}
	return rows, nil
}

func (s *TableStore) Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc := bson.M{}
	for k, v := range row {
		doc[k] = v
	}
	if _, ok := schema.ToInt64(doc["id"]); !ok {
		id, err := s.nextID(ctx, table)
		if err != nil {
			return nil, err
		}
		doc["id"] = id
	}
	if _, err := s.db.Collection(table).InsertOne(ctx, doc); err != nil {
		return nil, domain.Unavailable("mongo insert "+table, err)
	}
	return fromDocument(doc), nil
}

// nextID atomically increments the table's sequence in the counters
// collection.
func (s *TableStore) nextID(ctx context.Context, table string) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": table},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return 0, domain.Unavailable("mongo sequence "+table, err)
	}
	return out.Seq, nil
}

func (s *TableStore) Update(ctx context.Context, table string, id int64, patch schema.Row) (schema.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	set := bson.M{}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return nil, &domain.ValidationError{Message: "empty update"}
	}

	var doc bson.M
	err := s.db.Collection(table).FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s %d: %w", table, id, domain.ErrNotFound)
		}
		return nil, domain.Unavailable("mongo update "+table, err)
	}
	return fromDocument(doc), nil
}

func (s *TableStore) Delete(ctx context.Context, q ports.Query) (int64, error) {
	if err := q.CheckDelete(); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.Collection(q.Table).DeleteMany(ctx, buildFilter(q.Filters))
	if err != nil {
		return 0, domain.Unavailable("mongo delete "+q.Table, err)
	}
	return res.DeletedCount, nil
}

func (s *TableStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// EnsureIndexes indexes the numeric id of each table and the columns the
// dashboard filters on.
func (s *TableStore) EnsureIndexes(ctx context.Context, r *schema.Resolver) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	byEntity := map[schema.Entity][]string{
		schema.EntityProject: {"clientId", "solTLId", "createdAt"},
		schema.EntityClient:  {"createdAt"},
		schema.EntityUser:    {"email"},
		schema.EntityPackage: {"projectid", "tentativedate"},
		schema.EntityRFI:     {"projectId"},
	}
	for e, fields := range byEntity {
		models := []mongo.IndexModel{{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}}
		for _, f := range fields {
			models = append(models, mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}})
		}
		if _, err := s.db.Collection(r.Table(e)).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes %s: %w", r.Table(e), err)
		}
	}
	return nil
}

// buildFilter translates query filters into a mongo filter document.
// Range operators on the same field are merged.
func buildFilter(filters []ports.Filter) bson.M {
	out := bson.M{}
	ops := map[string]bson.M{}
	for _, f := range filters {
		switch f.Op {
		case ports.OpEq:
			out[f.Field] = f.Value
		case ports.OpIEq:
			out[f.Field] = primitive.Regex{
				Pattern: "^" + regexp.QuoteMeta(schema.ToString(f.Value)) + "$",
				Options: "i",
			}
		case ports.OpIn:
			vs, _ := f.Value.([]any)
			out[f.Field] = bson.M{"$in": bson.A(vs)}
		case ports.OpGte, ports.OpLte:
			m := ops[f.Field]
			if m == nil {
				m = bson.M{}
				ops[f.Field] = m
			}
			if f.Op == ports.OpGte {
				m["$gte"] = f.Value
			} else {
				m["$lte"] = f.Value
			}
		}
	}
	for field, m := range ops {
		out[field] = m
	}
	return out
}

// fromDocument converts a decoded document into a row with plain Go values.
func fromDocument(doc bson.M) schema.Row {
	row := make(schema.Row, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		row[k] = plain(v)
	}
	return row
}

func plain(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0).UTC()
	case int32:
		return int64(x)
	case primitive.Decimal128:
		return x.String()
	case primitive.ObjectID:
		return x.Hex()
	case bson.M:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = plain(e)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}
