package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ridoystarlord/relq/schema"
)

type yamlFile struct {
	Tables []yamlRelation `yaml:"tables"`
	Views  []yamlRelation `yaml:"views"`
}

type yamlRelation struct {
	Name    string       `yaml:"name"`
	Columns []yamlColumn `yaml:"columns"`
}

type yamlColumn struct {
	Name       string          `yaml:"name"`
	Type       string          `yaml:"type"`
	Primary    bool            `yaml:"primary"`
	Unique     bool            `yaml:"unique"`
	NotNull    bool            `yaml:"not_null"`
	Default    *string         `yaml:"default"`
	ForeignKey *yamlForeignKey `yaml:"foreign_key"`
}

type yamlForeignKey struct {
	ReferencesTable  string `yaml:"references_table"`
	ReferencesColumn string `yaml:"references_column"`
	OnDelete         string `yaml:"on_delete"`
	OnUpdate         string `yaml:"on_update"`
}

// LoadSchemaFromYAML reads a schema file and builds the relation registry.
// Relations are created first and associations wired in a second pass, so a
// foreign key may reference a table declared later in the file.
func LoadSchemaFromYAML(filename string) (*schema.Schema, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema builds the relation registry from raw YAML.
func ParseSchema(data []byte) (*schema.Schema, error) {
	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	s := schema.New()

	for _, t := range yf.Tables {
		rel, err := schema.NewTable(t.Name, columns(t.Columns)...)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		if err := s.Add(rel); err != nil {
			return nil, err
		}
	}
	for _, v := range yf.Views {
		rel, err := schema.NewView(v.Name, columns(v.Columns)...)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", v.Name, err)
		}
		if err := s.Add(rel); err != nil {
			return nil, err
		}
	}

	// Second pass: associations.
	for _, t := range yf.Tables {
		child, _ := s.Relation(t.Name)
		for _, c := range t.Columns {
			if c.ForeignKey == nil {
				continue
			}
			parent, ok := s.Relation(c.ForeignKey.ReferencesTable)
			if !ok {
				return nil, fmt.Errorf("table %s: foreign key on %s references unknown table %q",
					t.Name, c.Name, c.ForeignKey.ReferencesTable)
			}
			refCol := c.ForeignKey.ReferencesColumn
			if refCol == "" {
				pk, ok := parent.PrimaryKey()
				if !ok {
					return nil, fmt.Errorf("table %s: foreign key on %s omits the column and %s has no primary key",
						t.Name, c.Name, parent.Name())
				}
				refCol = pk.Name
			}
			_, err := schema.Associate(child, c.Name, parent, refCol,
				schema.ReferentialAction(c.ForeignKey.OnDelete),
				schema.ReferentialAction(c.ForeignKey.OnUpdate))
			if err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

func columns(in []yamlColumn) []schema.Column {
	var out []schema.Column
	for _, c := range in {
		out = append(out, schema.Column{
			Name:    c.Name,
			Type:    c.Type,
			Primary: c.Primary,
			Unique:  c.Unique,
			NotNull: c.NotNull,
			Default: c.Default,
		})
	}
	return out
}
