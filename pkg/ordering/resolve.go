package ordering

import (
	"cmp"
	"slices"

	"github.com/matzehuels/rankorder/pkg/dag"
)

// Group is one or more nodes that are placed contiguously. Nodes keep the
// order required by the constraints that caused them to merge, Index is the
// smallest input index among the members, and Barycenter/Weight aggregate
// the defined members (Defined is false if no member had a barycenter).
type Group struct {
	Nodes      []string
	Index      int
	Barycenter float64
	Weight     float64
	Defined    bool
}

// ResolveConflicts coalesces entries whose barycenter order violates cg and
// returns the resulting groups sorted by [SortGroups] without right bias.
//
// The entry index is its position in entries. Constraint edges with an
// endpoint outside entries are ignored. Entries are visited in topological
// order of cg (sources in input order, most recent first); when an entry v
// is visited, every predecessor group u that does not sit strictly left of
// v by barycenter is merged into v. A final pass repeats the check over all
// constraint edges until no two groups conflict, and the nodes inside each
// group are put in constraint order. An entry without a barycenter always
// violates the constraints it takes part in.
//
// For acyclic constraints the flattened result satisfies every constraint.
// Cyclic constraint graphs are not an error: when no source remains, the
// unvisited entry with the smallest index is visited next, and members of a
// cycle end up in one group in a deterministic order.
func ResolveConflicts(entries []Entry, cg *ConstraintGraph) []Group {
	return SortGroups(resolve(entries, cg), false)
}

type resolveNode struct {
	group    Group
	in       []int // visited predecessors, in visiting order
	out      []int
	indegree int
	visited  bool
	parent   int // union-find link, self for representatives
}

type resolver struct {
	nodes []resolveNode
	index map[string]int
	edges [][2]int
}

func resolve(entries []Entry, cg *ConstraintGraph) []Group {
	r := &resolver{
		nodes: make([]resolveNode, len(entries)),
		index: make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		r.nodes[i] = resolveNode{
			group: Group{
				Nodes:      []string{e.Node},
				Index:      i,
				Barycenter: e.Barycenter,
				Weight:     e.Weight,
				Defined:    e.Defined,
			},
			parent: i,
		}
		r.index[e.Node] = i
	}
	for _, c := range cg.Edges() {
		u, okU := r.index[c.Before]
		v, okV := r.index[c.After]
		if !okU || !okV {
			continue
		}
		r.edges = append(r.edges, [2]int{u, v})
		r.nodes[u].out = append(r.nodes[u].out, v)
		r.nodes[v].indegree++
	}

	order := r.visit()
	r.settle()

	groups := make([]Group, 0, len(order))
	for _, i := range order {
		if r.find(i) != i {
			continue
		}
		g := r.nodes[i].group
		g.Nodes = memberOrder(g.Nodes, cg)
		groups = append(groups, g)
	}
	return groups
}

func (r *resolver) find(i int) int {
	for r.nodes[i].parent != i {
		r.nodes[i].parent = r.nodes[r.nodes[i].parent].parent
		i = r.nodes[i].parent
	}
	return i
}

// union merges group u into group v, u's nodes first.
func (r *resolver) union(u, v int) {
	r.nodes[v].group = merge(r.nodes[u].group, r.nodes[v].group)
	r.nodes[u].parent = v
}

// visit walks the entries in topological order of the constraints and
// returns the visiting order.
func (r *resolver) visit() []int {
	nodes := r.nodes
	var stack []int
	for i := range nodes {
		if nodes[i].indegree == 0 {
			stack = append(stack, i)
		}
	}

	order := make([]int, 0, len(nodes))
	for len(order) < len(nodes) {
		var v int
		if len(stack) > 0 {
			v = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		} else {
			v = slices.IndexFunc(nodes, func(n resolveNode) bool { return !n.visited })
		}
		if nodes[v].visited {
			continue
		}
		nodes[v].visited = true
		order = append(order, v)

		for k := len(nodes[v].in) - 1; k >= 0; k-- {
			u := r.find(nodes[v].in[k])
			if u != v && violates(nodes[u].group, nodes[v].group) {
				r.union(u, v)
			}
		}
		for _, w := range nodes[v].out {
			if nodes[w].visited {
				continue
			}
			nodes[w].in = append(nodes[w].in, v)
			if nodes[w].indegree--; nodes[w].indegree == 0 {
				stack = append(stack, w)
			}
		}
	}
	return order
}

// settle merges groups until no constraint edge runs between two groups in
// the wrong barycenter order. A merge moves the merged group's barycenter,
// which can break a constraint that held during the visit.
func (r *resolver) settle() {
	for changed := true; changed; {
		changed = false
		for _, e := range r.edges {
			u, v := r.find(e[0]), r.find(e[1])
			if u != v && violates(r.nodes[u].group, r.nodes[v].group) {
				r.union(u, v)
				changed = true
			}
		}
	}
}

// memberOrder sorts the nodes of a group so that constraints between them
// hold, keeping the current order wherever the constraints allow. Cycles
// are broken by taking the earliest remaining node.
func memberOrder(nodes []string, cg *ConstraintGraph) []string {
	if len(nodes) < 2 || cg.Len() == 0 {
		return nodes
	}
	pos := dag.PosMap(nodes)
	indegree := make([]int, len(nodes))
	for _, c := range cg.Edges() {
		_, okB := pos[c.Before]
		a, okA := pos[c.After]
		if okB && okA {
			indegree[a]++
		}
	}

	done := make([]bool, len(nodes))
	out := make([]string, 0, len(nodes))
	for len(out) < len(nodes) {
		pick := -1
		for i := range nodes {
			if !done[i] && indegree[i] == 0 {
				pick = i
				break
			}
		}
		if pick < 0 {
			pick = slices.Index(done, false)
		}
		done[pick] = true
		out = append(out, nodes[pick])
		for _, s := range cg.Successors(nodes[pick]) {
			if j, ok := pos[s]; ok && !done[j] {
				indegree[j]--
			}
		}
	}
	return out
}

// violates reports whether u fails to sit strictly left of v.
func violates(u, v Group) bool {
	return !u.Defined || !v.Defined || u.Barycenter >= v.Barycenter
}

// merge places left's nodes before right's and combines the defined
// barycenters as a weighted mean.
func merge(left, right Group) Group {
	g := Group{
		Nodes: append(slices.Clone(left.Nodes), right.Nodes...),
		Index: min(left.Index, right.Index),
	}
	var sum float64
	for _, side := range []Group{left, right} {
		if side.Defined {
			sum += side.Barycenter * side.Weight
			g.Weight += side.Weight
			g.Defined = true
		}
	}
	if g.Defined {
		g.Barycenter = sum / g.Weight
	}
	return g
}

// SortGroups orders groups in place and returns them: groups with a
// barycenter first, ascending by barycenter with ties broken by ascending
// Index (descending when biasRight), then groups without a barycenter in
// ascending Index order.
func SortGroups(groups []Group, biasRight bool) []Group {
	slices.SortStableFunc(groups, func(a, b Group) int {
		switch {
		case a.Defined && !b.Defined:
			return -1
		case !a.Defined && b.Defined:
			return 1
		case !a.Defined:
			return cmp.Compare(a.Index, b.Index)
		}
		if c := cmp.Compare(a.Barycenter, b.Barycenter); c != 0 {
			return c
		}
		if biasRight {
			return cmp.Compare(b.Index, a.Index)
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return groups
}

// Flatten concatenates the nodes of groups into a rank order.
func Flatten(groups []Group) []string {
	n := 0
	for _, g := range groups {
		n += len(g.Nodes)
	}
	order := make([]string, 0, n)
	for _, g := range groups {
		order = append(order, g.Nodes...)
	}
	return order
}
