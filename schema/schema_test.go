package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	rel, err := NewTable("book",
		Column{Name: "id", Type: "serial", Primary: true},
		Column{Name: "title", Type: "text", NotNull: true},
	)
	require.NoError(t, err)

	assert.Equal(t, "book", rel.Name())
	assert.Equal(t, Table, rel.Kind())
	assert.Len(t, rel.Columns(), 2)

	pk, ok := rel.PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, "id", pk.Name)

	col, ok := rel.Column("title")
	require.True(t, ok)
	assert.Equal(t, "text", col.Type)

	_, ok = rel.Column("missing")
	assert.False(t, ok)
}

func TestNewTable_DuplicateColumn(t *testing.T) {
	_, err := NewTable("book",
		Column{Name: "id", Type: "serial"},
		Column{Name: "id", Type: "integer"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
}

func TestNewTable_EmptyName(t *testing.T) {
	_, err := NewTable("")
	require.Error(t, err)
}

func TestShortName(t *testing.T) {
	rel, err := NewTable("public.book", Column{Name: "id", Type: "serial"})
	require.NoError(t, err)
	assert.Equal(t, "book", rel.ShortName())
	assert.Equal(t, "public.book", rel.Name())

	unqualified, err := NewTable("book", Column{Name: "id", Type: "serial"})
	require.NoError(t, err)
	assert.Equal(t, "book", unqualified.ShortName())
}

func TestNewView(t *testing.T) {
	rel, err := NewView("book_titles", Column{Name: "title", Type: "text"})
	require.NoError(t, err)
	assert.Equal(t, View, rel.Kind())
}

func TestAssociate(t *testing.T) {
	category, err := NewTable("category",
		Column{Name: "id", Type: "serial", Primary: true},
		Column{Name: "name", Type: "text"},
	)
	require.NoError(t, err)
	book, err := NewTable("book",
		Column{Name: "id", Type: "serial", Primary: true},
		Column{Name: "category_id", Type: "integer"},
	)
	require.NoError(t, err)

	assoc, err := Associate(book, "category_id", category, "id", Cascade, "")
	require.NoError(t, err)

	assert.Equal(t, book, assoc.Child())
	assert.Equal(t, category, assoc.Parent())
	assert.Equal(t, "category_id", assoc.ChildColumn().Name)
	assert.Equal(t, "id", assoc.ParentColumn().Name)
	assert.Equal(t, Cascade, assoc.OnDelete())
	assert.Equal(t, NoAction, assoc.OnUpdate())
	assert.Equal(t, "book.category_id -> category.id", assoc.String())

	// Outgoing on the child, incoming on the parent.
	require.Len(t, book.AssociationsTo(category), 1)
	require.Len(t, category.AssociationsFrom(book), 1)
	assert.Same(t, book.AssociationsTo(category)[0], category.AssociationsFrom(book)[0])

	// Nothing in the other direction.
	assert.Empty(t, category.AssociationsTo(book))
	assert.Empty(t, book.AssociationsFrom(category))
}

func TestAssociate_Errors(t *testing.T) {
	category, err := NewTable("category",
		Column{Name: "id", Type: "serial", Primary: true},
		Column{Name: "name", Type: "text"},
	)
	require.NoError(t, err)
	book, err := NewTable("book",
		Column{Name: "id", Type: "serial", Primary: true},
		Column{Name: "category_id", Type: "integer"},
		Column{Name: "isbn", Type: "text"},
	)
	require.NoError(t, err)

	_, err = Associate(book, "missing", category, "id", NoAction, NoAction)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "child column")

	_, err = Associate(book, "category_id", category, "missing", NoAction, NoAction)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parent column")

	_, err = Associate(book, "isbn", category, "id", NoAction, NoAction)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not comparable")

	_, err = Associate(book, "category_id", category, "id", NoAction, NoAction)
	require.NoError(t, err)
	_, err = Associate(book, "category_id", category, "id", NoAction, NoAction)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declared")
}

func TestTypesComparable(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"integer", "integer", true},
		{"serial", "integer", true},
		{"bigserial", "bigint", true},
		{"integer", "bigint", true},
		{"smallint", "bigint", true},
		{"varchar(255)", "text", true},
		{"character varying", "text", true},
		{"timestamptz", "timestamp", true},
		{"numeric(10,2)", "decimal", true},
		{"TEXT", "text", true},
		{"text", "integer", false},
		{"uuid", "integer", false},
		{"boolean", "text", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypesComparable(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestSchemaRegistry(t *testing.T) {
	s := New()

	book, err := NewTable("book", Column{Name: "id", Type: "serial"})
	require.NoError(t, err)
	category, err := NewTable("category", Column{Name: "id", Type: "serial"})
	require.NoError(t, err)

	require.NoError(t, s.Add(book))
	require.NoError(t, s.Add(category))

	err = s.Add(book)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	got, ok := s.Relation("book")
	require.True(t, ok)
	assert.Same(t, book, got)

	_, ok = s.Relation("missing")
	assert.False(t, ok)

	rels := s.Relations()
	require.Len(t, rels, 2)
	assert.Equal(t, "book", rels[0].Name())
	assert.Equal(t, "category", rels[1].Name())
}
