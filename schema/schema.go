package schema

import "fmt"

// Schema is a registry of relations, keyed by name and insertion-ordered.
type Schema struct {
	relations map[string]*Relation
	order     []string
}

// New creates an empty schema registry.
func New() *Schema {
	return &Schema{relations: map[string]*Relation{}}
}

// Add registers a relation. Names must be unique within the schema.
func (s *Schema) Add(r *Relation) error {
	if _, exists := s.relations[r.name]; exists {
		return fmt.Errorf("relation %q already registered", r.name)
	}
	s.relations[r.name] = r
	s.order = append(s.order, r.name)
	return nil
}

// Relation looks up a relation by name.
func (s *Schema) Relation(name string) (*Relation, bool) {
	r, ok := s.relations[name]
	return r, ok
}

// Relations returns every registered relation in insertion order.
func (s *Schema) Relations() []*Relation {
	out := make([]*Relation, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.relations[name])
	}
	return out
}
