package query

import "sort"

// Kind classifies an attribute for clause rendering: text attributes order on
// a lower-cased projection, array attributes use list containment.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
	KindBool
	KindTextArray
)

// Attribute maps a public field name to its backing column.
type Attribute struct {
	Column string
	Kind   Kind
}

// Entity is the per-record-type attribute registry, built once at startup.
// It replaces attribute lookups against live schema metadata: handlers and
// the sort planner validate field names against it before any SQL runs.
type Entity struct {
	Name       string
	Table      string
	PrimaryKey string
	attrs      map[string]Attribute
	fields     []string
}

func NewEntity(name, table, primaryKey string, attrs map[string]Attribute) *Entity {
	fields := make([]string, 0, len(attrs))
	for f := range attrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return &Entity{
		Name:       name,
		Table:      table,
		PrimaryKey: primaryKey,
		attrs:      attrs,
		fields:     fields,
	}
}

// Attribute looks up a public field name.
func (e *Entity) Attribute(field string) (Attribute, bool) {
	a, ok := e.attrs[field]
	return a, ok
}

// Fields returns the known field names in sorted order, for error messages.
func (e *Entity) Fields() []string {
	return e.fields
}

// PrimaryKeyColumn returns the qualified column backing the primary key.
func (e *Entity) PrimaryKeyColumn() string {
	return e.attrs[e.PrimaryKey].Column
}
