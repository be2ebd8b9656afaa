package criteria

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/relq/node"
)

// Criteria assembles a SELECT query from a root relation node. It consumes
// the node tree for projections and columns and delegates all SQL spelling
// to the dialect. It never executes anything.
type Criteria struct {
	root    node.RelationNode
	dialect node.Dialect
	selects []string
	wheres  []string
	orderBy []string
	limit   *int
	offset  *int
}

// New builds a criteria over a root node with the given dialect.
func New(root node.RelationNode, d node.Dialect) *Criteria {
	return &Criteria{root: root, dialect: d}
}

// Root returns the root node the criteria was built from.
func (c *Criteria) Root() node.RelationNode { return c.root }

// Select overrides the projection-derived column list with explicit
// expressions.
func (c *Criteria) Select(exprs ...string) *Criteria {
	c.selects = append(c.selects, exprs...)
	return c
}

// Where adds a predicate; multiple predicates are AND-combined.
func (c *Criteria) Where(condition string) *Criteria {
	c.wheres = append(c.wheres, condition)
	return c
}

// OrderBy adds ordering expressions.
func (c *Criteria) OrderBy(exprs ...string) *Criteria {
	c.orderBy = append(c.orderBy, exprs...)
	return c
}

// Limit caps the result row count.
func (c *Criteria) Limit(n int) *Criteria {
	c.limit = &n
	return c
}

// Offset skips leading result rows.
func (c *Criteria) Offset(n int) *Criteria {
	c.offset = &n
	return c
}

// Columns returns the full qualified column set of the tree with sentinel
// aliases resolved, for predicate building. Resolution runs on a clone with
// the same algorithm SQL uses, so the aliases match the rendered query.
func (c *Criteria) Columns() []node.ColumnRef {
	root := c.root.Clone()
	resolveAliases(root)
	return root.Columns()
}

// SQL renders the query. The caller's tree is never mutated: rendering
// clones it, resolves sentinel aliases with a counter scoped to this one
// compilation, and walks the clone.
func (c *Criteria) SQL() string {
	root := c.root.Clone()
	resolveAliases(root)

	cols := c.selects
	if len(cols) == 0 {
		cols = projectionColumns(root)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(c.fromClause(root))

	if len(c.wheres) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(c.wheres, " AND "))
	}
	if len(c.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(c.orderBy, ", "))
	}
	if c.limit != nil {
		b.WriteString(fmt.Sprintf(" LIMIT %d", *c.limit))
	}
	if c.offset != nil {
		b.WriteString(fmt.Sprintf(" OFFSET %d", *c.offset))
	}
	return b.String()
}

// fromClause walks the left spine of the tree: each join contributes its
// dialect-rendered join fragment to the right of its left side.
func (c *Criteria) fromClause(n node.RelationNode) string {
	switch v := n.(type) {
	case *node.JoinNode:
		return c.fromClause(v.Left()) + " " + c.dialect.Join(v)
	case *node.ViewNode:
		return c.dialect.ViewAlias(v.Relation(), v.Alias())
	default:
		return c.dialect.TableAlias(n.Relation(), n.Alias())
	}
}

func projectionColumns(root node.RelationNode) []string {
	var out []string
	for _, p := range root.Projections() {
		alias := p.Node.Alias()
		if len(p.Columns) == 0 {
			for _, col := range p.Node.Relation().Columns() {
				out = append(out, alias+"."+col.Name)
			}
			continue
		}
		for _, name := range p.Columns {
			out = append(out, alias+"."+name)
		}
	}
	return out
}
