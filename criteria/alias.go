package criteria

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/relq/node"
)

// resolveAliases replaces every sentinel alias in the tree with a
// query-unique one derived from the relation's short name. The uniquifying
// counter lives on the stack of one compilation; concurrent query builds
// never share it.
func resolveAliases(root node.RelationNode) {
	taken := map[string]bool{}
	walkLeaves(root, func(n node.RelationNode) {
		if n.Alias() != node.DefaultAlias {
			taken[n.Alias()] = true
		}
	})
	walkLeaves(root, func(n node.RelationNode) {
		if n.Alias() != node.DefaultAlias {
			return
		}
		base := strings.ToLower(n.Relation().ShortName())
		alias := base
		for i := 1; taken[alias]; i++ {
			alias = fmt.Sprintf("%s_%d", base, i)
		}
		taken[alias] = true
		n.As(alias)
	})
}

// walkLeaves visits every leaf node left to right.
func walkLeaves(n node.RelationNode, visit func(node.RelationNode)) {
	if j, ok := n.(*node.JoinNode); ok {
		walkLeaves(j.Left(), visit)
		walkLeaves(j.Right(), visit)
		return
	}
	visit(n)
}
