package schema

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Entity names a logical record kind in the alias table.
type Entity string

const (
	EntityProject Entity = "project"
	EntityClient  Entity = "client"
	EntityUser    Entity = "user"
	EntityPackage Entity = "package"
	EntityRFI     Entity = "rfi"
)

//go:embed aliases.yaml
var embeddedAliases []byte

// AliasTable is the declarative source of column aliases and table name
// candidates, keyed by entity.
type AliasTable struct {
	Tables map[Entity][]string            `yaml:"tables"`
	Fields map[Entity]map[string][]string `yaml:"fields"`
}

// ResolveField returns the value of the first present, non-nil key among the
// canonical name and its aliases, in that order. It returns nil when none
// match.
func ResolveField(row Row, canonical string, aliases ...string) any {
	if row == nil {
		return nil
	}
	if v, ok := row[canonical]; ok && v != nil {
		return v
	}
	for _, a := range aliases {
		if v, ok := row[a]; ok && v != nil {
			return v
		}
	}
	return nil
}

// Resolver resolves logical fields of an entity against rows whose column
// names drifted over time. It is safe for concurrent use once built.
type Resolver struct {
	table AliasTable
}

// NewResolver builds a resolver over t.
func NewResolver(t AliasTable) *Resolver {
	if t.Tables == nil {
		t.Tables = map[Entity][]string{}
	}
	if t.Fields == nil {
		t.Fields = map[Entity]map[string][]string{}
	}
	return &Resolver{table: t}
}

// ParseAliases decodes a YAML alias table.
func ParseAliases(data []byte) (*Resolver, error) {
	var t AliasTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse alias table: %w", err)
	}
	if len(t.Fields) == 0 {
		return nil, fmt.Errorf("parse alias table: no entities declared")
	}
	return NewResolver(t), nil
}

// LoadAliases reads an alias table from path. An empty path yields the
// embedded default.
func LoadAliases(path string) (*Resolver, error) {
	if path == "" {
		return ParseAliases(embeddedAliases)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias table: %w", err)
	}
	return ParseAliases(data)
}

// Default returns a resolver over the embedded alias table.
func Default() *Resolver {
	r, err := ParseAliases(embeddedAliases)
	if err != nil {
		panic(err)
	}
	return r
}

// Aliases returns the aliases declared for field of entity e.
func (r *Resolver) Aliases(e Entity, field string) []string {
	return r.table.Fields[e][field]
}

// Tables returns the table name candidates for e, in probing order. The
// first entry is the primary table.
func (r *Resolver) Tables(e Entity) []string {
	return r.table.Tables[e]
}

// Table returns the primary table of e, or the entity name itself when none
// is declared.
func (r *Resolver) Table(e Entity) string {
	if ts := r.table.Tables[e]; len(ts) > 0 {
		return ts[0]
	}
	return string(e)
}

// Resolve returns the raw value of field for a row of entity e.
func (r *Resolver) Resolve(e Entity, row Row, field string) any {
	return ResolveField(row, field, r.Aliases(e, field)...)
}

// Column returns the key of row that holds field, following the same order as
// Resolve.
func (r *Resolver) Column(e Entity, row Row, field string) (string, bool) {
	for _, k := range append([]string{field}, r.Aliases(e, field)...) {
		if v, ok := row[k]; ok && v != nil {
			return k, true
		}
	}
	return "", false
}

// String resolves field and formats it as text; absent values yield "".
func (r *Resolver) String(e Entity, row Row, field string) string {
	return ToString(r.Resolve(e, row, field))
}

// Text is like String but skips blank values, so a column holding "" does
// not hide a populated alias. Display names use it.
func (r *Resolver) Text(e Entity, row Row, field string) string {
	for _, k := range append([]string{field}, r.Aliases(e, field)...) {
		if s := strings.TrimSpace(ToString(row[k])); s != "" {
			return s
		}
	}
	return ""
}

// Int64 resolves field as an integer; absent or unparsable values report false.
func (r *Resolver) Int64(e Entity, row Row, field string) (int64, bool) {
	return ToInt64(r.Resolve(e, row, field))
}

// Int64Ptr is Int64 returning nil when the value is absent.
func (r *Resolver) Int64Ptr(e Entity, row Row, field string) *int64 {
	v, ok := r.Int64(e, row, field)
	if !ok {
		return nil
	}
	return &v
}

// Float resolves field as a number, treating absent values as zero.
func (r *Resolver) Float(e Entity, row Row, field string) float64 {
	f, _ := ToFloat(r.Resolve(e, row, field))
	return f
}

// Time resolves field as a timestamp; absent or unparsable values report false.
func (r *Resolver) Time(e Entity, row Row, field string) (time.Time, bool) {
	return ToTime(r.Resolve(e, row, field))
}
