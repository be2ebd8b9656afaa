package ddl

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/relq/schema"
)

// GenerateSQL renders the DDL for a relation registry: one CREATE TABLE per
// table followed by one ALTER TABLE ... ADD CONSTRAINT per association, so
// tables exist before anything references them.
func GenerateSQL(s *schema.Schema) []string {
	var statements []string

	for _, rel := range s.Relations() {
		if rel.Kind() != schema.Table {
			continue
		}
		statements = append(statements, createTable(rel))
	}
	for _, rel := range s.Relations() {
		for _, assoc := range rel.Associations() {
			statements = append(statements, addForeignKey(assoc))
		}
	}
	return statements
}

func createTable(rel *schema.Relation) string {
	stmt := fmt.Sprintf(`CREATE TABLE "%s" (`, rel.Name())

	cols := rel.Columns()
	for i, col := range cols {
		stmt += fmt.Sprintf(`"%s" %s`, col.Name, col.Type)
		if col.Primary {
			stmt += " PRIMARY KEY"
		}
		if col.Unique {
			stmt += " UNIQUE"
		}
		if col.NotNull {
			stmt += " NOT NULL"
		}
		if col.Default != nil {
			stmt += fmt.Sprintf(" DEFAULT %s", *col.Default)
		}
		if i < len(cols)-1 {
			stmt += ", "
		}
	}

	return stmt + ");"
}

func addForeignKey(assoc *schema.Association) string {
	child := assoc.Child()
	parent := assoc.Parent()
	stmt := fmt.Sprintf(`ALTER TABLE "%s" ADD CONSTRAINT "fk_%s_%s" FOREIGN KEY ("%s") REFERENCES "%s" ("%s")`,
		child.Name(),
		strings.ReplaceAll(child.Name(), ".", "_"),
		assoc.ChildColumn().Name,
		assoc.ChildColumn().Name,
		parent.Name(),
		assoc.ParentColumn().Name,
	)
	if assoc.OnDelete() != schema.NoAction {
		stmt += fmt.Sprintf(" ON DELETE %s", assoc.OnDelete())
	}
	if assoc.OnUpdate() != schema.NoAction {
		stmt += fmt.Sprintf(" ON UPDATE %s", assoc.OnUpdate())
	}
	return stmt + ";"
}
