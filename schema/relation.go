package schema

import (
	"fmt"
	"strings"
)

// RelationKind distinguishes tables from views.
type RelationKind string

const (
	Table RelationKind = "TABLE"
	View  RelationKind = "VIEW"
)

// Column describes one column of a relation.
type Column struct {
	Name    string
	Type    string
	Primary bool
	Unique  bool
	NotNull bool
	Default *string
}

// Relation is an immutable descriptor of a table or view: its name, its
// ordered columns, its primary key and its declared associations. Relations
// are built once at schema-registration time and shared read-only by every
// query that references them.
type Relation struct {
	name       string
	kind       RelationKind
	columns    []Column
	primaryKey *Column
	outgoing   []*Association // this relation as child
	incoming   []*Association // this relation as parent
}

// NewTable builds a table relation. The first column flagged Primary becomes
// the primary key. Column names must be unique within the relation.
func NewTable(name string, columns ...Column) (*Relation, error) {
	return newRelation(name, Table, columns)
}

// NewView builds a view relation.
func NewView(name string, columns ...Column) (*Relation, error) {
	return newRelation(name, View, columns)
}

func newRelation(name string, kind RelationKind, columns []Column) (*Relation, error) {
	if name == "" {
		return nil, fmt.Errorf("relation name cannot be empty")
	}
	r := &Relation{
		name:    name,
		kind:    kind,
		columns: make([]Column, len(columns)),
	}
	copy(r.columns, columns)

	seen := map[string]bool{}
	for i := range r.columns {
		col := &r.columns[i]
		if seen[col.Name] {
			return nil, fmt.Errorf("relation %s: duplicate column %q", name, col.Name)
		}
		seen[col.Name] = true
		if col.Primary && r.primaryKey == nil {
			r.primaryKey = col
		}
	}
	return r, nil
}

// Name returns the stable, possibly schema-qualified relation name.
func (r *Relation) Name() string { return r.name }

// ShortName returns the name without any schema qualifier.
func (r *Relation) ShortName() string {
	if i := strings.LastIndex(r.name, "."); i >= 0 {
		return r.name[i+1:]
	}
	return r.name
}

// Kind reports whether the relation is a table or a view.
func (r *Relation) Kind() RelationKind { return r.kind }

// Columns returns the ordered column sequence.
func (r *Relation) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Column looks up a column by name.
func (r *Relation) Column(name string) (Column, bool) {
	for _, c := range r.columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKey returns the primary-key column, if one was declared.
func (r *Relation) PrimaryKey() (Column, bool) {
	if r.primaryKey == nil {
		return Column{}, false
	}
	return *r.primaryKey, true
}

// AssociationsTo returns every declared association in which this relation
// is the child and parent is the parent.
func (r *Relation) AssociationsTo(parent *Relation) []*Association {
	var out []*Association
	for _, a := range r.outgoing {
		if a.parent.name == parent.name {
			out = append(out, a)
		}
	}
	return out
}

// AssociationsFrom returns every declared association in which this relation
// is the parent and child is the child (the reverse lookup).
func (r *Relation) AssociationsFrom(child *Relation) []*Association {
	var out []*Association
	for _, a := range r.incoming {
		if a.child.name == child.name {
			out = append(out, a)
		}
	}
	return out
}

// Associations returns every outgoing association (this relation as child).
func (r *Relation) Associations() []*Association {
	out := make([]*Association, len(r.outgoing))
	copy(out, r.outgoing)
	return out
}
