package node

import "github.com/ridoystarlord/relq/schema"

// leaf carries the state shared by TableNode and ViewNode. The self pointer
// lets shared methods return the concrete outer node for fluent chaining.
type leaf struct {
	self        RelationNode
	rel         *schema.Relation
	alias       string
	projections []Projection
}

// TableNode is a leaf node wrapping a table relation.
type TableNode struct {
	leaf
}

// ViewNode is a leaf node wrapping a view relation.
type ViewNode struct {
	leaf
}

// NewTable builds a leaf node for a table relation with the default
// sentinel alias and a single whole-record projection.
func NewTable(rel *schema.Relation) *TableNode {
	n := &TableNode{}
	n.init(n, rel)
	return n
}

// NewView builds a leaf node for a view relation.
func NewView(rel *schema.Relation) *ViewNode {
	n := &ViewNode{}
	n.init(n, rel)
	return n
}

// Leaf builds the leaf node matching the relation's kind.
func Leaf(rel *schema.Relation) RelationNode {
	if rel.Kind() == schema.View {
		return NewView(rel)
	}
	return NewTable(rel)
}

func (l *leaf) init(self RelationNode, rel *schema.Relation) {
	l.self = self
	l.rel = rel
	l.alias = DefaultAlias
	l.projections = []Projection{{Node: self}}
}

func (l *leaf) Relation() *schema.Relation { return l.rel }

func (l *leaf) Alias() string { return l.alias }

func (l *leaf) As(alias string) RelationNode {
	l.alias = alias
	return l.self
}

func (l *leaf) Projections() []Projection {
	out := make([]Projection, len(l.projections))
	copy(out, l.projections)
	return out
}

// Project overrides the default whole-record projection with an explicit
// column list and returns the node itself.
func (l *leaf) Project(columns ...string) RelationNode {
	l.projections = []Projection{{Node: l.self, Columns: columns}}
	return l.self
}

func (l *leaf) Columns() []ColumnRef {
	cols := l.rel.Columns()
	out := make([]ColumnRef, 0, len(cols))
	for _, c := range cols {
		out = append(out, ColumnRef{Alias: l.alias, Column: c})
	}
	return out
}

func (l *leaf) ParentAssociation(target RelationNode) (*schema.Association, error) {
	return parentAssociation(l.rel, target.Relation())
}

func (l *leaf) ChildAssociation(target RelationNode) (*schema.Association, error) {
	return childAssociation(l.rel, target.Relation())
}

func (l *leaf) Equal(other RelationNode) bool {
	return other != nil && l.rel.Name() == other.Relation().Name()
}

func (l *leaf) Key() string { return l.rel.Name() }

func (l *leaf) Join(target RelationNode, joinType ...JoinType) (RelationNode, error) {
	return inferJoin(l.self, target, joinTypeOrDefault(joinType))
}

func (l *leaf) JoinOn(target RelationNode, condition string, joinType ...JoinType) RelationNode {
	return explicitJoin(l.self, target, condition, joinTypeOrDefault(joinType))
}

func (l *leaf) JoinAssociation(target RelationNode, assoc *schema.Association, joinType ...JoinType) (RelationNode, error) {
	return associationJoin(l.self, target, assoc, joinTypeOrDefault(joinType))
}

// Clone returns a shallow copy: a new node object over the same shared
// relation, carrying the same alias value but independently re-aliasable.
func (n *TableNode) Clone() RelationNode {
	c := &TableNode{}
	c.init(c, n.rel)
	c.alias = n.alias
	c.projections = cloneProjections(n.projections, c)
	return c
}

// Clone returns a shallow copy of the view node.
func (n *ViewNode) Clone() RelationNode {
	c := &ViewNode{}
	c.init(c, n.rel)
	c.alias = n.alias
	c.projections = cloneProjections(n.projections, c)
	return c
}

func cloneProjections(src []Projection, owner RelationNode) []Projection {
	out := make([]Projection, len(src))
	for i, p := range src {
		cols := make([]string, len(p.Columns))
		copy(cols, p.Columns)
		out[i] = Projection{Node: owner, Columns: cols}
	}
	return out
}
