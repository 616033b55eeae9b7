package ordering

import (
	"fmt"
	"strings"

	"github.com/matzehuels/rankorder/pkg/dag"
)

// Initializer builds the starting layering for [Barycentric.OrderRows].
type Initializer interface {
	InitialLayering(g *dag.DAG) dag.Layering
}

// ParseInitializer returns the initializer named "rows" or "dfs". The empty
// string is RowOrder.
func ParseInitializer(s string) (Initializer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rows":
		return RowOrder{}, nil
	case "dfs":
		return DepthFirst{}, nil
	}
	return nil, fmt.Errorf("unknown initializer %q (want rows or dfs)", s)
}

// RowOrder uses the graph's rows in node insertion order.
type RowOrder struct{}

func (RowOrder) InitialLayering(g *dag.DAG) dag.Layering {
	return dag.LayeringFromRows(g)
}

// DepthFirst orders each rank by the first visit of a depth-first walk along
// outgoing edges. Walks start from every unvisited node in row order, so
// nodes that are close in the graph start out close in their ranks.
type DepthFirst struct{}

func (DepthFirst) InitialLayering(g *dag.DAG) dag.Layering {
	rows := dag.LayeringFromRows(g)
	rankOf := rows.RankOf()
	l := make(dag.Layering, len(rows))
	for i := range l {
		l[i] = make([]string, 0, len(rows[i]))
	}

	// Children are pushed in reverse so they pop in edge order.
	visited := make(map[string]bool, g.NodeCount())
	var stack []string
	for _, rank := range rows {
		for _, root := range rank {
			stack = append(stack[:0], root)
			for len(stack) > 0 {
				id := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if visited[id] {
					continue
				}
				visited[id] = true
				r := rankOf[id]
				l[r] = append(l[r], id)
				children := g.Children(id)
				for i := len(children) - 1; i >= 0; i-- {
					if !visited[children[i]] {
						stack = append(stack, children[i])
					}
				}
			}
		}
	}
	return l
}
