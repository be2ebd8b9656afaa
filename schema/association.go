package schema

import (
	"fmt"
	"strings"
)

// ReferentialAction is the ON DELETE / ON UPDATE behaviour of a foreign key.
type ReferentialAction string

const (
	NoAction ReferentialAction = "NO ACTION"
	Restrict ReferentialAction = "RESTRICT"
	Cascade  ReferentialAction = "CASCADE"
	SetNull  ReferentialAction = "SET NULL"
)

// Association is a directed foreign-key edge from a child relation/column to
// a parent relation/column. Its identity is the (child relation, parent
// relation, child column) triple.
type Association struct {
	child        *Relation
	parent       *Relation
	childColumn  Column
	parentColumn Column
	onDelete     ReferentialAction
	onUpdate     ReferentialAction
}

// Associate declares a foreign key from child.childColumn to
// parent.parentColumn and registers it on both relations: on the child as an
// outgoing association and on the parent as an incoming one. Both columns
// must exist and their type domains must be comparable.
func Associate(child *Relation, childColumn string, parent *Relation, parentColumn string, onDelete, onUpdate ReferentialAction) (*Association, error) {
	cc, ok := child.Column(childColumn)
	if !ok {
		return nil, fmt.Errorf("association %s -> %s: child column %q not found", child.name, parent.name, childColumn)
	}
	pc, ok := parent.Column(parentColumn)
	if !ok {
		return nil, fmt.Errorf("association %s -> %s: parent column %q not found", child.name, parent.name, parentColumn)
	}
	if !TypesComparable(cc.Type, pc.Type) {
		return nil, fmt.Errorf("association %s.%s -> %s.%s: type %q is not comparable to %q",
			child.name, cc.Name, parent.name, pc.Name, cc.Type, pc.Type)
	}
	for _, a := range child.outgoing {
		if a.parent.name == parent.name && a.childColumn.Name == cc.Name {
			return nil, fmt.Errorf("association %s.%s -> %s already declared", child.name, cc.Name, parent.name)
		}
	}
	if onDelete == "" {
		onDelete = NoAction
	}
	if onUpdate == "" {
		onUpdate = NoAction
	}

	a := &Association{
		child:        child,
		parent:       parent,
		childColumn:  cc,
		parentColumn: pc,
		onDelete:     onDelete,
		onUpdate:     onUpdate,
	}
	child.outgoing = append(child.outgoing, a)
	parent.incoming = append(parent.incoming, a)
	return a, nil
}

// Child returns the child (foreign-key owning) relation.
func (a *Association) Child() *Relation { return a.child }

// Parent returns the referenced relation.
func (a *Association) Parent() *Relation { return a.parent }

// ChildColumn returns the foreign-key column on the child relation.
func (a *Association) ChildColumn() Column { return a.childColumn }

// ParentColumn returns the referenced column on the parent relation.
func (a *Association) ParentColumn() Column { return a.parentColumn }

// OnDelete returns the delete cascade policy.
func (a *Association) OnDelete() ReferentialAction { return a.onDelete }

// OnUpdate returns the update cascade policy.
func (a *Association) OnUpdate() ReferentialAction { return a.onUpdate }

func (a *Association) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", a.child.name, a.childColumn.Name, a.parent.name, a.parentColumn.Name)
}

// TypesComparable reports whether two column type tags belong to the same
// scalar domain, after normalizing PostgreSQL spellings and aliases.
func TypesComparable(a, b string) bool {
	na, nb := normalizeType(a), normalizeType(b)
	if na == nb {
		return true
	}
	// The integer family is mutually comparable.
	return integerTypes[na] && integerTypes[nb]
}

var integerTypes = map[string]bool{
	"smallint": true,
	"integer":  true,
	"bigint":   true,
}

var typeAliases = map[string]string{
	"serial":                      "integer",
	"serial4":                     "integer",
	"int":                         "integer",
	"int4":                        "integer",
	"bigserial":                   "bigint",
	"serial8":                     "bigint",
	"int8":                        "bigint",
	"smallserial":                 "smallint",
	"serial2":                     "smallint",
	"int2":                        "smallint",
	"varchar":                     "text",
	"character varying":           "text",
	"char":                        "text",
	"character":                   "text",
	"bool":                        "boolean",
	"float4":                      "real",
	"float8":                      "double precision",
	"decimal":                     "numeric",
	"timestamptz":                 "timestamp",
	"timestamp with time zone":    "timestamp",
	"timestamp without time zone": "timestamp",
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	// Strip length/precision modifiers: varchar(255), numeric(10,2)
	if i := strings.Index(t, "("); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if alias, ok := typeAliases[t]; ok {
		return alias
	}
	return t
}
