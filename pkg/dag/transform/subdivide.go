package transform

import (
	"fmt"

	"github.com/matzehuels/rankorder/pkg/dag"
)

// Subdivide replaces every edge spanning more than one row with a chain of
// single-row edges through [dag.NodeKindSubdivider] nodes and returns the
// number of nodes inserted:
//
//	Before: app (row 0) → core (row 3)
//	After:  app → app_sub_1 → app_sub_2 → core
//
// Every edge of a chain inherits the weight of the edge it replaces, so a
// heavy long edge stays heavy in every rank pair it passes through. The
// chain keeps the original direction, including edges stored bottom-up.
// Metadata is kept on the last edge of the chain only.
//
// Subdivider IDs have the form "master_sub_row"; a numeric suffix is added
// on collision. Edges between nodes of the same row are left untouched.
func Subdivide(g *dag.DAG) int {
	gen := newIDGen(g.Nodes())
	added := 0

	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK {
			continue
		}
		top, bottom := src, dst
		if top.Row > bottom.Row {
			top, bottom = bottom, top
		}
		if bottom.Row-top.Row <= 1 {
			continue
		}

		chain := []string{top.ID}
		for row := top.Row + 1; row < bottom.Row; row++ {
			id := gen.next(src.EffectiveID(), row)
			if err := g.AddNode(dag.Node{
				ID:       id,
				Row:      row,
				Cluster:  src.Cluster,
				Kind:     dag.NodeKindSubdivider,
				MasterID: src.EffectiveID(),
			}); err != nil {
				panic(err)
			}
			chain = append(chain, id)
			added++
		}
		chain = append(chain, bottom.ID)
		if top.ID != src.ID {
			for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
				chain[i], chain[j] = chain[j], chain[i]
			}
		}

		g.RemoveEdge(e.From, e.To)
		for i := 0; i+1 < len(chain); i++ {
			seg := dag.Edge{From: chain[i], To: chain[i+1], Weight: e.Weight}
			if i+2 == len(chain) {
				seg.Meta = e.Meta
			}
			if err := g.AddEdge(seg); err != nil {
				panic(err)
			}
		}
	}
	return added
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
