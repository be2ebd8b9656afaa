package introspect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ridoystarlord/relq/database"
	"github.com/ridoystarlord/relq/schema"
)

type existingForeignKey struct {
	constraintName   string
	columnName       string
	referencesTable  string
	referencesColumn string
	onDelete         string
	onUpdate         string
}

// IntrospectSchema reads the public schema of the connected database and
// builds the relation registry: tables, views, columns, primary keys and
// foreign-key associations with their cascade actions.
func IntrospectSchema() (*schema.Schema, error) {
	ctx := context.Background()
	pool, err := database.GetPool()
	if err != nil {
		return nil, fmt.Errorf("unable to get connection pool: %v", err)
	}
	return introspect(ctx, pool)
}

func introspect(ctx context.Context, pool *pgxpool.Pool) (*schema.Schema, error) {
	s := schema.New()

	tables, err := relationNames(ctx, pool, "BASE TABLE")
	if err != nil {
		return nil, fmt.Errorf("querying tables: %v", err)
	}
	views, err := relationNames(ctx, pool, "VIEW")
	if err != nil {
		return nil, fmt.Errorf("querying views: %v", err)
	}

	for _, name := range tables {
		cols, err := getColumns(ctx, pool, name)
		if err != nil {
			return nil, fmt.Errorf("getting columns for table %s: %v", name, err)
		}
		rel, err := schema.NewTable(name, cols...)
		if err != nil {
			return nil, err
		}
		if err := s.Add(rel); err != nil {
			return nil, err
		}
	}
	for _, name := range views {
		cols, err := getColumns(ctx, pool, name)
		if err != nil {
			return nil, fmt.Errorf("getting columns for view %s: %v", name, err)
		}
		rel, err := schema.NewView(name, cols...)
		if err != nil {
			return nil, err
		}
		if err := s.Add(rel); err != nil {
			return nil, err
		}
	}

	// Associations after every relation exists, so forward references work.
	for _, name := range tables {
		fks, err := getForeignKeys(ctx, pool, name)
		if err != nil {
			return nil, fmt.Errorf("getting foreign keys for table %s: %v", name, err)
		}
		child, _ := s.Relation(name)
		for _, fk := range fks {
			parent, ok := s.Relation(fk.referencesTable)
			if !ok {
				continue // referenced table outside the public schema
			}
			if alreadyDeclared(child, parent, fk.columnName) {
				continue
			}
			_, err := schema.Associate(child, fk.columnName, parent, fk.referencesColumn,
				schema.ReferentialAction(fk.onDelete),
				schema.ReferentialAction(fk.onUpdate))
			if err != nil {
				return nil, fmt.Errorf("registering %s: %v", fk.constraintName, err)
			}
		}
	}

	return s, nil
}

func alreadyDeclared(child, parent *schema.Relation, column string) bool {
	for _, a := range child.AssociationsTo(parent) {
		if a.ChildColumn().Name == column {
			return true
		}
	}
	return false
}

func relationNames(ctx context.Context, pool *pgxpool.Pool, tableType string) ([]string, error) {
	query := `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = 'public' AND table_type = $1
	ORDER BY table_name;
	`

	rows, err := pool.Query(ctx, query, tableType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning relation name: %v", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func getColumns(ctx context.Context, pool *pgxpool.Pool, tableName string) ([]schema.Column, error) {
	query := `
	SELECT
		c.column_name,
		c.data_type,
		(c.is_nullable = 'NO') as not_null,
		c.column_default,
		COALESCE(tc.constraint_type = 'PRIMARY KEY', false) as is_primary,
		COALESCE(tc.constraint_type = 'UNIQUE', false) as is_unique
	FROM information_schema.columns c
	LEFT JOIN information_schema.key_column_usage kcu
		ON c.table_name = kcu.table_name AND c.column_name = kcu.column_name
	LEFT JOIN information_schema.table_constraints tc
		ON kcu.constraint_name = tc.constraint_name AND kcu.table_name = tc.table_name
	WHERE c.table_schema = 'public' AND c.table_name = $1
	ORDER BY c.ordinal_position;
	`

	rows, err := pool.Query(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// A column can appear once per constraint it participates in, so merge
	// rows by name.
	var cols []schema.Column
	index := map[string]int{}
	for rows.Next() {
		var col schema.Column
		if err := rows.Scan(&col.Name, &col.Type, &col.NotNull, &col.Default, &col.Primary, &col.Unique); err != nil {
			return nil, fmt.Errorf("scanning column: %v", err)
		}
		if i, ok := index[col.Name]; ok {
			cols[i].Primary = cols[i].Primary || col.Primary
			cols[i].Unique = cols[i].Unique || col.Unique
			continue
		}
		index[col.Name] = len(cols)
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func getForeignKeys(ctx context.Context, pool *pgxpool.Pool, tableName string) ([]existingForeignKey, error) {
	query := `
	SELECT
		tc.constraint_name,
		kcu.column_name,
		ccu.table_name AS references_table,
		ccu.column_name AS references_column,
		rc.delete_rule,
		rc.update_rule
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name
	JOIN information_schema.constraint_column_usage ccu
		ON tc.constraint_name = ccu.constraint_name
	JOIN information_schema.referential_constraints rc
		ON tc.constraint_name = rc.constraint_name
	WHERE tc.constraint_type = 'FOREIGN KEY'
		AND tc.table_schema = 'public'
		AND tc.table_name = $1
	ORDER BY tc.constraint_name;
	`

	rows, err := pool.Query(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []existingForeignKey
	for rows.Next() {
		var fk existingForeignKey
		if err := rows.Scan(&fk.constraintName, &fk.columnName, &fk.referencesTable, &fk.referencesColumn, &fk.onDelete, &fk.onUpdate); err != nil {
			return nil, fmt.Errorf("scanning foreign key: %v", err)
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}
