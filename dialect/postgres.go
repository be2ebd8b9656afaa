package dialect

import (
	"fmt"

	"github.com/ridoystarlord/relq/node"
	"github.com/ridoystarlord/relq/schema"
)

// Postgres renders node trees to PostgreSQL syntax: double-quoted
// identifiers, standard join keywords.
type Postgres struct{}

// NewPostgres returns the PostgreSQL dialect.
func NewPostgres() *Postgres {
	return &Postgres{}
}

// TableAlias renders the FROM-clause fragment for a table leaf. The alias is
// emitted only when it differs from the table's own short name.
func (p *Postgres) TableAlias(rel *schema.Relation, alias string) string {
	return p.relationAlias(rel, alias)
}

// ViewAlias renders the FROM-clause fragment for a view leaf.
func (p *Postgres) ViewAlias(rel *schema.Relation, alias string) string {
	return p.relationAlias(rel, alias)
}

func (p *Postgres) relationAlias(rel *schema.Relation, alias string) string {
	if alias == "" || alias == rel.ShortName() {
		return fmt.Sprintf(`"%s"`, rel.Name())
	}
	return fmt.Sprintf(`"%s" AS "%s"`, rel.Name(), alias)
}

// Join renders the full join-clause fragment: keyword, right-hand relation
// and ON condition. A join subtree on the right side is parenthesized.
func (p *Postgres) Join(j *node.JoinNode) string {
	return fmt.Sprintf("%s %s ON %s", p.JoinKeyword(j.Type()), p.fragment(j.Right()), j.Condition())
}

// JoinKeyword returns the SQL keyword for a join type.
func (p *Postgres) JoinKeyword(t node.JoinType) string {
	switch t {
	case node.Inner:
		return "INNER JOIN"
	case node.Right:
		return "RIGHT JOIN"
	case node.Full:
		return "FULL JOIN"
	default:
		return "LEFT JOIN"
	}
}

func (p *Postgres) fragment(n node.RelationNode) string {
	switch v := n.(type) {
	case *node.JoinNode:
		return fmt.Sprintf("(%s %s)", p.fragment(v.Left()), p.Join(v))
	case *node.ViewNode:
		return p.ViewAlias(v.Relation(), v.Alias())
	default:
		return p.TableAlias(n.Relation(), n.Alias())
	}
}
