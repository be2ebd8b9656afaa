package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/relq/schema"
)

func TestJoinInference_ChildToParent(t *testing.T) {
	book, category := bookCategory(t)
	b := NewTable(book).As("b")
	c := NewTable(category).As("c")

	joined, err := b.Join(c)
	require.NoError(t, err)

	j, ok := joined.(*JoinNode)
	require.True(t, ok)
	assert.Equal(t, ChildToParent, j.Kind())
	assert.Equal(t, Left, j.Type())
	assert.Equal(t, "b.category_id = c.id", j.Condition())
	assert.Equal(t, "book", j.Relation().Name())
}

func TestJoinInference_ParentToChild(t *testing.T) {
	book, category := bookCategory(t)
	c := NewTable(category).As("c")
	b := NewTable(book).As("b")

	joined, err := c.Join(b)
	require.NoError(t, err)

	j := joined.(*JoinNode)
	assert.Equal(t, ParentToChild, j.Kind())
	// Condition shape is always child.column = parent.column.
	assert.Equal(t, "b.category_id = c.id", j.Condition())
	assert.Equal(t, "category", j.Relation().Name())
}

func TestJoinInference_DeterministicAcrossAliases(t *testing.T) {
	for _, aliases := range [][2]string{{"x", "y"}, {"books", "cats"}, {"a1", "a2"}} {
		book, category := bookCategory(t)
		b := NewTable(book).As(aliases[0])
		c := NewTable(category).As(aliases[1])

		joined, err := b.Join(c)
		require.NoError(t, err)
		j := joined.(*JoinNode)
		assert.Equal(t, ChildToParent, j.Kind())
		assert.Equal(t, aliases[0]+".category_id = "+aliases[1]+".id", j.Condition())
	}
}

func TestJoin_NoAssociationFails(t *testing.T) {
	book, _ := bookCategory(t)
	author, err := schema.NewTable("author",
		schema.Column{Name: "id", Type: "serial", Primary: true},
	)
	require.NoError(t, err)

	_, err = NewTable(book).Join(NewTable(author))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAssociation)
}

func TestJoin_AmbiguousAssociationFails(t *testing.T) {
	user, err := schema.NewTable("users",
		schema.Column{Name: "id", Type: "serial", Primary: true},
	)
	require.NoError(t, err)
	invoice, err := schema.NewTable("invoice",
		schema.Column{Name: "id", Type: "serial", Primary: true},
		schema.Column{Name: "buyer_id", Type: "integer"},
		schema.Column{Name: "seller_id", Type: "integer"},
	)
	require.NoError(t, err)
	_, err = schema.Associate(invoice, "buyer_id", user, "id", schema.NoAction, schema.NoAction)
	require.NoError(t, err)
	_, err = schema.Associate(invoice, "seller_id", user, "id", schema.NoAction, schema.NoAction)
	require.NoError(t, err)

	// Child side asking for the parent.
	_, err = NewTable(invoice).Join(NewTable(user))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousAssociation)

	// Parent side asking for the child.
	_, err = NewTable(user).Join(NewTable(invoice))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousAssociation)

	// Explicit association still works.
	buyer := invoice.AssociationsTo(user)[0]
	joined, err := NewTable(invoice).JoinAssociation(NewTable(user), buyer)
	require.NoError(t, err)
	assert.Equal(t, ChildToParent, joined.(*JoinNode).Kind())
}

func TestJoin_DefaultTypeIsLeft(t *testing.T) {
	book, category := bookCategory(t)

	joined, err := NewTable(book).Join(NewTable(category))
	require.NoError(t, err)
	assert.Equal(t, Left, joined.(*JoinNode).Type())

	inner, err := NewTable(book).Join(NewTable(category), Inner)
	require.NoError(t, err)
	assert.Equal(t, Inner, inner.(*JoinNode).Type())
}

func TestProjectionCompositionLaw(t *testing.T) {
	for _, jt := range []JoinType{Inner, Left, Right, Full} {
		book, category := bookCategory(t)
		b := NewTable(book)
		c := NewTable(category)

		joined, err := b.Join(c, jt)
		require.NoError(t, err)

		want := append(b.Projections(), c.Projections()...)
		assert.Equal(t, want, joined.Projections(), "join type %s", jt)
	}
}

func TestJoinAliasDelegatesToLeft(t *testing.T) {
	book, category := bookCategory(t)
	b := NewTable(book).As("b")
	c := NewTable(category)

	joined, err := b.Join(c)
	require.NoError(t, err)

	assert.Equal(t, "b", joined.Alias())

	joined.As("b2")
	assert.Equal(t, "b2", b.Alias())
	assert.Equal(t, "b2", joined.Alias())
}

func TestConditionUsesLiveAliases(t *testing.T) {
	book, category := bookCategory(t)
	b := NewTable(book)
	c := NewTable(category)

	joined, err := b.Join(c)
	require.NoError(t, err)

	// Aliases assigned after joining still show up in the condition.
	b.As("bk")
	c.As("cat")
	assert.Equal(t, "bk.category_id = cat.id", joined.(*JoinNode).Condition())
}

func TestExplicitJoin(t *testing.T) {
	category, err := schema.NewTable("category",
		schema.Column{Name: "id", Type: "serial", Primary: true},
		schema.Column{Name: "parent_id", Type: "integer"},
	)
	require.NoError(t, err)

	c1 := NewTable(category).As("c1")
	c2 := NewTable(category).As("c2")

	joined := c1.JoinOn(c2, "c1.parent_id = c2.id")
	j := joined.(*JoinNode)
	assert.Equal(t, Explicit, j.Kind())
	assert.Equal(t, Left, j.Type())
	assert.Nil(t, j.Association())
	assert.Equal(t, "c1.parent_id = c2.id", j.Condition())
	assert.Equal(t, "c1", j.Alias())
	assert.Equal(t, "c2", j.Right().Alias())
}

func TestJoinAssociation_MustConnectBothSides(t *testing.T) {
	book, category := bookCategory(t)
	author, err := schema.NewTable("author",
		schema.Column{Name: "id", Type: "serial", Primary: true},
	)
	require.NoError(t, err)

	assoc := book.AssociationsTo(category)[0]

	// Parent side given explicitly: direction is detected.
	joined, err := NewTable(category).JoinAssociation(NewTable(book), assoc)
	require.NoError(t, err)
	assert.Equal(t, ParentToChild, joined.(*JoinNode).Kind())

	_, err = NewTable(author).JoinAssociation(NewTable(book), assoc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not connect")
}

func TestJoinCloneIsDeep(t *testing.T) {
	book, category := bookCategory(t)
	b := NewTable(book).As("b")
	c := NewTable(category).As("c")

	joined, err := b.Join(c)
	require.NoError(t, err)
	original := joined.(*JoinNode)

	clone := original.Clone().(*JoinNode)

	// Mutating the clone's aliases leaves the original untouched.
	clone.As("b2")
	clone.Right().As("c2")
	assert.Equal(t, "b", original.Alias())
	assert.Equal(t, "c", original.Right().Alias())
	assert.Equal(t, "b.category_id = c.id", original.Condition())
	assert.Equal(t, "b2.category_id = c2.id", clone.Condition())

	// Replacing a clone child leaves the original children in place.
	clone.ReplaceLeft(NewTable(book).As("b3"))
	assert.Same(t, RelationNode(b), original.Left())

	// Cloned nodes still share the immutable relation descriptors.
	assert.Same(t, original.Relation(), clone.Relation())
}

func TestReplaceIsFluent(t *testing.T) {
	book, category := bookCategory(t)
	joined, err := NewTable(book).Join(NewTable(category))
	require.NoError(t, err)
	j := joined.(*JoinNode)

	other := NewTable(book)
	assert.Same(t, j, j.ReplaceLeft(other))
	assert.Same(t, RelationNode(other), j.Left())

	right := NewTable(category)
	assert.Same(t, j, j.ReplaceRight(right))
	assert.Same(t, RelationNode(right), j.Right())
}

func TestJoinColumnsLeftThenRight(t *testing.T) {
	book, category := bookCategory(t)
	b := NewTable(book).As("b")
	c := NewTable(category).As("c")

	joined, err := b.Join(c)
	require.NoError(t, err)

	cols := joined.Columns()
	require.Len(t, cols, 5)
	assert.Equal(t, "b", cols[0].Alias)
	assert.Equal(t, "id", cols[0].Column.Name)
	assert.Equal(t, "c", cols[3].Alias)
	assert.Equal(t, "id", cols[3].Column.Name)
}

func TestJoinTypeString(t *testing.T) {
	assert.Equal(t, "INNER", Inner.String())
	assert.Equal(t, "LEFT", Left.String())
	assert.Equal(t, "RIGHT", Right.String())
	assert.Equal(t, "FULL", Full.String())
}
