package loader

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/ridoystarlord/relq/schema"
)

// TagLoader builds a relation registry from Go structs annotated with relq
// tags, e.g.
//
//	type Book struct {
//		ID         int    `relq:"column:id;type:serial;primary"`
//		Title      string `relq:"not_null"`
//		CategoryID int    `relq:"fk:category.id:CASCADE:NO ACTION"`
//	}
type TagLoader struct {
	modelsDir string
}

// NewTagLoader creates a tag loader over a directory of model files.
func NewTagLoader(modelsDir string) *TagLoader {
	return &TagLoader{modelsDir: modelsDir}
}

// LoadSchemaFromTags loads the relation registry from Go structs in modelsDir.
func LoadSchemaFromTags(modelsDir string) (*schema.Schema, error) {
	return NewTagLoader(modelsDir).Load()
}

type taggedRelation struct {
	name    string
	columns []schema.Column
	fks     map[string]*yamlForeignKey // child column -> fk spec
}

// Load parses every .go file in the models directory and builds the schema.
func (tl *TagLoader) Load() (*schema.Schema, error) {
	if _, err := os.Stat(tl.modelsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("models directory %q does not exist", tl.modelsDir)
	}

	var parsed []taggedRelation
	err := filepath.Walk(tl.modelsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rels, err := tl.parseGoFile(path)
		if err != nil {
			return fmt.Errorf("parsing %s: %v", path, err)
		}
		parsed = append(parsed, rels...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s := schema.New()
	for _, p := range parsed {
		rel, err := schema.NewTable(p.name, p.columns...)
		if err != nil {
			return nil, err
		}
		if err := s.Add(rel); err != nil {
			return nil, err
		}
	}

	// Second pass so a model may reference one declared in a later file.
	for _, p := range parsed {
		child, _ := s.Relation(p.name)
		for colName, fk := range p.fks {
			parent, ok := s.Relation(fk.ReferencesTable)
			if !ok {
				return nil, fmt.Errorf("model %s: fk on %s references unknown table %q", p.name, colName, fk.ReferencesTable)
			}
			_, err := schema.Associate(child, colName, parent, fk.ReferencesColumn,
				schema.ReferentialAction(fk.OnDelete),
				schema.ReferentialAction(fk.OnUpdate))
			if err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (tl *TagLoader) parseGoFile(path string) ([]taggedRelation, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var rels []taggedRelation
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		structType, ok := spec.Type.(*ast.StructType)
		if !ok {
			return true
		}
		if rel := tl.parseStruct(spec.Name.Name, structType); rel != nil {
			rels = append(rels, *rel)
		}
		return true
	})
	return rels, nil
}

func (tl *TagLoader) parseStruct(structName string, structType *ast.StructType) *taggedRelation {
	rel := &taggedRelation{
		name: tableName(structName),
		fks:  map[string]*yamlForeignKey{},
	}
	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 || !ast.IsExported(field.Names[0].Name) {
			continue
		}
		tag := parseFieldTag(field.Tag)
		if tag.ignore {
			continue
		}
		col := schema.Column{
			Name:    tag.column,
			Type:    tag.dataType,
			Primary: tag.primary,
			Unique:  tag.unique,
			NotNull: tag.notNull,
			Default: tag.defaultVal,
		}
		if col.Name == "" {
			col.Name = snakeCase(field.Names[0].Name)
		}
		if col.Type == "" {
			col.Type = inferDataType(fieldType(field.Type))
		}
		rel.columns = append(rel.columns, col)
		if tag.fk != nil {
			rel.fks[col.Name] = tag.fk
		}
	}
	return rel
}

type fieldTag struct {
	ignore     bool
	column     string
	dataType   string
	primary    bool
	unique     bool
	notNull    bool
	defaultVal *string
	fk         *yamlForeignKey
}

func parseFieldTag(tag *ast.BasicLit) fieldTag {
	if tag == nil {
		return fieldTag{ignore: true}
	}
	value := reflect.StructTag(strings.Trim(tag.Value, "`")).Get("relq")
	if value == "" || value == "-" {
		return fieldTag{ignore: true}
	}

	var ft fieldTag
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if kv := strings.SplitN(part, ":", 2); len(kv) == 2 && !isFlag(kv[0]) {
			key, val := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
			switch key {
			case "column":
				ft.column = val
			case "type":
				ft.dataType = val
			case "default":
				ft.defaultVal = &val
			case "fk":
				ft.fk = parseForeignKeySpec(val)
			}
			continue
		}
		switch part {
		case "primary":
			ft.primary = true
		case "unique":
			ft.unique = true
		case "not_null":
			ft.notNull = true
		}
	}
	return ft
}

func isFlag(key string) bool {
	switch strings.TrimSpace(key) {
	case "primary", "unique", "not_null":
		return true
	}
	return false
}

// parseForeignKeySpec parses "table.column[:on_delete[:on_update]]".
func parseForeignKeySpec(spec string) *yamlForeignKey {
	parts := strings.Split(spec, ":")
	ref := strings.Split(parts[0], ".")
	if len(ref) != 2 {
		return nil
	}
	fk := &yamlForeignKey{
		ReferencesTable:  ref[0],
		ReferencesColumn: ref[1],
	}
	if len(parts) > 1 {
		fk.OnDelete = parts[1]
	}
	if len(parts) > 2 {
		fk.OnUpdate = parts[2]
	}
	return fk
}

func fieldType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return fieldType(t.X)
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
	}
	return ""
}

// tableName converts a struct name to a snake_case, pluralized table name.
func tableName(structName string) string {
	name := snakeCase(structName)
	if strings.HasSuffix(name, "y") {
		return strings.TrimSuffix(name, "y") + "ies"
	}
	if !strings.HasSuffix(name, "s") {
		return name + "s"
	}
	return name
}

func inferDataType(goType string) string {
	switch goType {
	case "int", "int32":
		return "integer"
	case "int64":
		return "bigint"
	case "string":
		return "text"
	case "bool":
		return "boolean"
	case "float32", "float64":
		return "numeric"
	case "time.Time":
		return "timestamp"
	default:
		return "text"
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	var prev rune
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' && prev >= 'a' && prev <= 'z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.ToLower(b.String())
}
