package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/steelvault/project-dashboard/internal/core/ports"
)

func TestBuildFilter(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	q := ports.From("ProjectPackage").
		Eq("projectid", int64(4)).
		IEq("email", "a.b+c@example.com").
		In("id", int64(1), int64(2)).
		Gte("tentativedate", from).
		Lte("tentativedate", to)

	f := buildFilter(q.Filters)

	if f["projectid"] != int64(4) {
		t.Errorf("eq: %v", f["projectid"])
	}
	re, ok := f["email"].(primitive.Regex)
	if !ok || re.Pattern != `^a\.b\+c@example\.com$` || re.Options != "i" {
		t.Errorf("ieq should be an anchored quoted regex, got %#v", f["email"])
	}
	in, _ := f["id"].(bson.M)
	if vs, _ := in["$in"].(bson.A); len(vs) != 2 {
		t.Errorf("in: %#v", f["id"])
	}
	rng, _ := f["tentativedate"].(bson.M)
	if rng["$gte"] != from || rng["$lte"] != to {
		t.Errorf("range operators not merged: %#v", f["tentativedate"])
	}
}

func TestFromDocument(t *testing.T) {
	at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	doc := bson.M{
		"_id":       primitive.NewObjectID(),
		"id":        int32(7),
		"createdAt": primitive.NewDateTimeFromTime(at),
		"tags":      bson.A{"a", int32(2)},
		"meta":      bson.D{{Key: "k", Value: "v"}},
	}

	row := fromDocument(doc)

	if _, ok := row["_id"]; ok {
		t.Error("_id must not be surfaced")
	}
	if row["id"] != int64(7) {
		t.Errorf("id = %#v", row["id"])
	}
	if got, _ := row["createdAt"].(time.Time); !got.Equal(at) {
		t.Errorf("createdAt = %#v", row["createdAt"])
	}
	if tags, _ := row["tags"].([]any); len(tags) != 2 || tags[1] != int64(2) {
		t.Errorf("tags = %#v", row["tags"])
	}
	if meta, _ := row["meta"].(map[string]any); meta["k"] != "v" {
		t.Errorf("meta = %#v", row["meta"])
	}
}
