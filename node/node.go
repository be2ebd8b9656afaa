package node

import (
	"errors"
	"fmt"

	"github.com/ridoystarlord/relq/schema"
)

// DefaultAlias is the sentinel alias carried by every freshly built node.
// The rendering layer resolves it into a query-unique alias, so the same
// relation can be joined into one query more than once without collisions.
const DefaultAlias = "this"

var (
	// ErrNoAssociation is returned when join inference finds no declared
	// association in either direction and no explicit condition was given.
	ErrNoAssociation = errors.New("no association between relations")

	// ErrAmbiguousAssociation is returned when more than one association
	// exists between a relation pair in the same direction. Callers must
	// disambiguate with an explicit association or condition; inference
	// never picks one of several candidates.
	ErrAmbiguousAssociation = errors.New("multiple associations between relations")
)

// ColumnRef is a column qualified by the alias of the node it belongs to.
type ColumnRef struct {
	Alias  string
	Column schema.Column
}

// Projection describes the output columns one node contributes to a query's
// result shape. An empty Columns list means the whole record of the node's
// relation.
type Projection struct {
	Node    RelationNode
	Columns []string
}

// RelationNode is a relation (or a join sub-tree) tagged with a query-scoped
// alias, usable in a FROM clause. Node equality is defined over the
// underlying relation identity only, never over the alias.
type RelationNode interface {
	// Relation returns the innermost underlying relation. A join delegates
	// to its left child, so for association purposes a join behaves exactly
	// like its left-hand leaf.
	Relation() *schema.Relation

	// Alias returns the current alias, DefaultAlias until assigned.
	Alias() string

	// As reassigns the alias in place and returns the node itself. Clone
	// first if the node is reused in a second join position.
	As(alias string) RelationNode

	// Clone copies the node: shallow for a leaf, deep for a join (both
	// children are recursively cloned). Cloned nodes still reference the
	// same shared, immutable relation descriptors.
	Clone() RelationNode

	// Projections returns the ordered projection descriptors of the
	// subtree. A join concatenates left's projections then right's.
	Projections() []Projection

	// Columns returns the full qualified column set of the subtree, for
	// predicate building.
	Columns() []ColumnRef

	// ParentAssociation searches the underlying relation's outgoing
	// associations for one pointing at target's underlying relation.
	// It returns (nil, nil) when none exists and ErrAmbiguousAssociation
	// when more than one does.
	ParentAssociation(target RelationNode) (*schema.Association, error)

	// ChildAssociation is the reverse lookup: an association declared by
	// target's relation pointing at this node's relation.
	ChildAssociation(target RelationNode) (*schema.Association, error)

	// Equal reports whether both nodes wrap the same underlying relation,
	// regardless of aliasing.
	Equal(other RelationNode) bool

	// Key is a stable map key derived from the underlying relation name.
	Key() string

	// Join combines this node with target using an association inferred
	// from declared schema metadata. The join type defaults to Left.
	Join(target RelationNode, joinType ...JoinType) (RelationNode, error)

	// JoinOn combines this node with target on a literal SQL condition,
	// bypassing inference. The join type defaults to Left.
	JoinOn(target RelationNode, condition string, joinType ...JoinType) RelationNode

	// JoinAssociation combines this node with target along an explicitly
	// chosen association, which must connect the two underlying relations
	// in either direction.
	JoinAssociation(target RelationNode, assoc *schema.Association, joinType ...JoinType) (RelationNode, error)
}

// Dialect renders nodes and joins to SQL text. The node tree owns structure
// and conditions; all keyword and identifier spelling belongs here.
type Dialect interface {
	TableAlias(rel *schema.Relation, alias string) string
	ViewAlias(rel *schema.Relation, alias string) string
	Join(j *JoinNode) string
	JoinKeyword(t JoinType) string
}

func parentAssociation(rel, target *schema.Relation) (*schema.Association, error) {
	matches := rel.AssociationsTo(target)
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s declares %d foreign keys to %s", ErrAmbiguousAssociation, rel.Name(), len(matches), target.Name())
	}
}

func childAssociation(rel, target *schema.Relation) (*schema.Association, error) {
	matches := target.AssociationsTo(rel)
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s declares %d foreign keys to %s", ErrAmbiguousAssociation, target.Name(), len(matches), rel.Name())
	}
}
