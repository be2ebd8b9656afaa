package node

import (
	"fmt"

	"github.com/ridoystarlord/relq/schema"
)

// JoinKind records how a join's condition is produced.
type JoinKind int

const (
	// ChildToParent joins along an association declared by the left node's
	// relation, pointing at the right node's relation.
	ChildToParent JoinKind = iota
	// ParentToChild joins along an association declared by the right node's
	// relation, pointing at the left node's relation.
	ParentToChild
	// Explicit joins on a caller-supplied literal SQL condition.
	Explicit
)

func (k JoinKind) String() string {
	switch k {
	case ChildToParent:
		return "child-to-parent"
	case ParentToChild:
		return "parent-to-child"
	default:
		return "explicit"
	}
}

// JoinNode is a binary combinator over two relation nodes. Its relation and
// alias delegate to the left child, so a join "is" its left side for further
// chaining, and its projections are left's followed by right's regardless of
// join type.
type JoinNode struct {
	left     RelationNode
	right    RelationNode
	joinType JoinType
	kind     JoinKind
	assoc    *schema.Association
	cond     string
}

func inferJoin(left, right RelationNode, jt JoinType) (RelationNode, error) {
	assoc, err := left.ParentAssociation(right)
	if err != nil {
		return nil, err
	}
	if assoc != nil {
		return &JoinNode{left: left, right: right, joinType: jt, kind: ChildToParent, assoc: assoc}, nil
	}
	assoc, err = left.ChildAssociation(right)
	if err != nil {
		return nil, err
	}
	if assoc != nil {
		return &JoinNode{left: left, right: right, joinType: jt, kind: ParentToChild, assoc: assoc}, nil
	}
	return nil, fmt.Errorf("%w: %s and %s; supply an association or an explicit condition",
		ErrNoAssociation, left.Relation().Name(), right.Relation().Name())
}

func explicitJoin(left, right RelationNode, condition string, jt JoinType) RelationNode {
	return &JoinNode{left: left, right: right, joinType: jt, kind: Explicit, cond: condition}
}

func associationJoin(left, right RelationNode, assoc *schema.Association, jt JoinType) (RelationNode, error) {
	switch {
	case assoc.Child().Name() == left.Relation().Name() && assoc.Parent().Name() == right.Relation().Name():
		return &JoinNode{left: left, right: right, joinType: jt, kind: ChildToParent, assoc: assoc}, nil
	case assoc.Child().Name() == right.Relation().Name() && assoc.Parent().Name() == left.Relation().Name():
		return &JoinNode{left: left, right: right, joinType: jt, kind: ParentToChild, assoc: assoc}, nil
	default:
		return nil, fmt.Errorf("association %s does not connect %s and %s",
			assoc, left.Relation().Name(), right.Relation().Name())
	}
}

// Relation delegates to the left child's underlying relation.
func (j *JoinNode) Relation() *schema.Relation { return j.left.Relation() }

// Alias delegates to the left child.
func (j *JoinNode) Alias() string { return j.left.Alias() }

// As reassigns the left child's alias and returns the join itself.
func (j *JoinNode) As(alias string) RelationNode {
	j.left.As(alias)
	return j
}

// Left returns the left child.
func (j *JoinNode) Left() RelationNode { return j.left }

// Right returns the right child.
func (j *JoinNode) Right() RelationNode { return j.right }

// Type returns the join type.
func (j *JoinNode) Type() JoinType { return j.joinType }

// Kind reports how the join condition is produced.
func (j *JoinNode) Kind() JoinKind { return j.kind }

// Association returns the association the condition is synthesized from,
// nil for an explicit join.
func (j *JoinNode) Association() *schema.Association { return j.assoc }

// ReplaceLeft substitutes the left child in place and returns the join.
func (j *JoinNode) ReplaceLeft(n RelationNode) *JoinNode {
	j.left = n
	return j
}

// ReplaceRight substitutes the right child in place and returns the join.
func (j *JoinNode) ReplaceRight(n RelationNode) *JoinNode {
	j.right = n
	return j
}

// Condition returns the join's ON expression. For association joins it is
// synthesized from the live aliases of both sides at call time, so aliasing
// a node after joining still renders correctly.
func (j *JoinNode) Condition() string {
	switch j.kind {
	case ChildToParent:
		return fmt.Sprintf("%s.%s = %s.%s",
			j.left.Alias(), j.assoc.ChildColumn().Name,
			j.right.Alias(), j.assoc.ParentColumn().Name)
	case ParentToChild:
		return fmt.Sprintf("%s.%s = %s.%s",
			j.right.Alias(), j.assoc.ChildColumn().Name,
			j.left.Alias(), j.assoc.ParentColumn().Name)
	default:
		return j.cond
	}
}

// Clone is deep: both children are recursively cloned so that later joins or
// aliasing on the clone never mutate the original tree. All cloned nodes
// still reference the same shared relation descriptors.
func (j *JoinNode) Clone() RelationNode {
	c := *j
	c.left = j.left.Clone()
	c.right = j.right.Clone()
	return &c
}

// Projections concatenates left's projections followed by right's, in that
// order, independent of join type. This governs how result columns map back
// onto composed records.
func (j *JoinNode) Projections() []Projection {
	left := j.left.Projections()
	return append(left, j.right.Projections()...)
}

// Columns returns the qualified columns of the whole subtree, left first.
func (j *JoinNode) Columns() []ColumnRef {
	left := j.left.Columns()
	return append(left, j.right.Columns()...)
}

func (j *JoinNode) ParentAssociation(target RelationNode) (*schema.Association, error) {
	return parentAssociation(j.Relation(), target.Relation())
}

func (j *JoinNode) ChildAssociation(target RelationNode) (*schema.Association, error) {
	return childAssociation(j.Relation(), target.Relation())
}

// Equal compares underlying relation identities, never aliases.
func (j *JoinNode) Equal(other RelationNode) bool {
	return other != nil && j.Relation().Name() == other.Relation().Name()
}

func (j *JoinNode) Key() string { return j.Relation().Name() }

func (j *JoinNode) Join(target RelationNode, joinType ...JoinType) (RelationNode, error) {
	return inferJoin(j, target, joinTypeOrDefault(joinType))
}

func (j *JoinNode) JoinOn(target RelationNode, condition string, joinType ...JoinType) RelationNode {
	return explicitJoin(j, target, condition, joinTypeOrDefault(joinType))
}

func (j *JoinNode) JoinAssociation(target RelationNode, assoc *schema.Association, joinType ...JoinType) (RelationNode, error) {
	return associationJoin(j, target, assoc, joinTypeOrDefault(joinType))
}
