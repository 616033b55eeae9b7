package transform

import "github.com/matzehuels/rankorder/pkg/dag"

// AssignLayers assigns every node to a row with a longest-path pass over a
// topological order (Kahn's algorithm): sources sit at row 0 and every other
// node one row below its deepest parent. Existing rows are overwritten.
//
// AssignLayers assumes an acyclic graph. Nodes on a cycle never reach zero
// in-degree and keep row 0, so run [BreakCycles] first.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		rows[n.ID] = 0
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
