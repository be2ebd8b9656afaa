package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/relq/schema"
)

func TestGenerateSQL(t *testing.T) {
	s := schema.New()

	defaultName := "'untitled'"
	category, err := schema.NewTable("category",
		schema.Column{Name: "id", Type: "serial", Primary: true},
		schema.Column{Name: "name", Type: "text", NotNull: true, Unique: true},
	)
	require.NoError(t, err)
	book, err := schema.NewTable("book",
		schema.Column{Name: "id", Type: "serial", Primary: true},
		schema.Column{Name: "title", Type: "text", Default: &defaultName},
		schema.Column{Name: "category_id", Type: "integer"},
	)
	require.NoError(t, err)
	_, err = schema.Associate(book, "category_id", category, "id", schema.Cascade, schema.SetNull)
	require.NoError(t, err)

	require.NoError(t, s.Add(category))
	require.NoError(t, s.Add(book))

	stmts := GenerateSQL(s)
	require.Len(t, stmts, 3)

	assert.Equal(t,
		`CREATE TABLE "category" ("id" serial PRIMARY KEY, "name" text UNIQUE NOT NULL);`,
		stmts[0])
	assert.Equal(t,
		`CREATE TABLE "book" ("id" serial PRIMARY KEY, "title" text DEFAULT 'untitled', "category_id" integer);`,
		stmts[1])
	assert.Equal(t,
		`ALTER TABLE "book" ADD CONSTRAINT "fk_book_category_id" FOREIGN KEY ("category_id") REFERENCES "category" ("id") ON DELETE CASCADE ON UPDATE SET NULL;`,
		stmts[2])
}

func TestGenerateSQL_SkipsViewsAndDefaultActions(t *testing.T) {
	s := schema.New()

	view, err := schema.NewView("book_titles", schema.Column{Name: "title", Type: "text"})
	require.NoError(t, err)
	require.NoError(t, s.Add(view))

	parent, err := schema.NewTable("parent", schema.Column{Name: "id", Type: "serial", Primary: true})
	require.NoError(t, err)
	child, err := schema.NewTable("child",
		schema.Column{Name: "id", Type: "serial", Primary: true},
		schema.Column{Name: "parent_id", Type: "integer"},
	)
	require.NoError(t, err)
	_, err = schema.Associate(child, "parent_id", parent, "id", schema.NoAction, schema.NoAction)
	require.NoError(t, err)
	require.NoError(t, s.Add(parent))
	require.NoError(t, s.Add(child))

	stmts := GenerateSQL(s)
	require.Len(t, stmts, 3) // two tables, one constraint, no view DDL
	assert.NotContains(t, stmts[2], "ON DELETE")
	assert.NotContains(t, stmts[2], "ON UPDATE")
}
