package ordering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rankorder/pkg/dag"
)

// Bias selects how equal barycenters are broken during a sweep.
type Bias int

const (
	// BiasAlternate breaks ties to the left on sweeps 0 and 1 of every four
	// and to the right on sweeps 2 and 3.
	BiasAlternate Bias = iota
	BiasLeft
	BiasRight
)

func (b Bias) String() string {
	switch b {
	case BiasAlternate:
		return "alternate"
	case BiasLeft:
		return "left"
	case BiasRight:
		return "right"
	default:
		return fmt.Sprintf("bias(%d)", int(b))
	}
}

// ParseBias parses "alternate", "left" or "right". The empty string is
// BiasAlternate.
func ParseBias(s string) (Bias, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "alternate":
		return BiasAlternate, nil
	case "left":
		return BiasLeft, nil
	case "right":
		return BiasRight, nil
	}
	return 0, fmt.Errorf("unknown bias %q (want alternate, left or right)", s)
}

// Barycentric is the layer-sweep barycenter heuristic. Each sweep reorders
// every rank by the barycenters of its neighbours in the adjacent rank,
// alternating downward sweeps (reference above) and upward sweeps
// (reference below). The best layering seen is kept.
//
// The zero value is ready to use.
type Barycentric struct {
	// MaxSweeps caps the number of sweeps. Zero means DefaultMaxSweeps.
	MaxSweeps int
	// MaxStale stops the run after this many consecutive sweeps without a
	// strict improvement. Zero means DefaultMaxStale.
	MaxStale int
	// Timeout stops the run with the best layering so far. It is checked
	// between sweeps. Zero means no limit.
	Timeout time.Duration

	// Constraints supplies per-rank ordering constraints. Nil means none.
	Constraints Constrainer
	// Init builds the starting layering for OrderRows. Nil means RowOrder.
	Init Initializer

	// Parallel reorders all ranks of a sweep concurrently. Each rank then
	// reads its reference rank from the previous sweep instead of the one
	// just updated.
	Parallel bool
	Bias     Bias

	// Progress, if set, is called after every sweep with the sweep index,
	// the sweep's crossing count and the best count so far.
	Progress func(sweep int, crossings, best float64)
}

var _ Orderer = Barycentric{}

func (b Barycentric) maxSweeps() int {
	if b.MaxSweeps > 0 {
		return b.MaxSweeps
	}
	return DefaultMaxSweeps
}

func (b Barycentric) maxStale() int {
	if b.MaxStale > 0 {
		return b.MaxStale
	}
	return DefaultMaxStale
}

func (b Barycentric) biasRight(sweep int) bool {
	switch b.Bias {
	case BiasLeft:
		return false
	case BiasRight:
		return true
	default:
		return sweep%4 >= 2
	}
}

// OrderRows orders g starting from the layering built by Init.
func (b Barycentric) OrderRows(ctx context.Context, g *dag.DAG) (*Result, error) {
	init := b.Init
	if init == nil {
		init = RowOrder{}
	}
	return b.Order(ctx, g, init.InitialLayering(g))
}

// Order improves initial and returns the best layering found. initial is
// validated with [dag.ValidateLayering] and never modified.
//
// Cancelling ctx aborts the run between sweeps with ctx.Err(); reaching
// Timeout is not an error. Any error from a sweep aborts the run and no
// partial result is returned.
func (b Barycentric) Order(ctx context.Context, g *dag.DAG, initial dag.Layering) (*Result, error) {
	if err := dag.ValidateLayering(g, initial); err != nil {
		return nil, err
	}

	ws := dag.NewCrossingWorkspace(initial.MaxWidth())
	cur := initial.Clone()
	crossings, err := ws.Count(g, cur)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Layering:         initial.Clone(),
		Crossings:        crossings,
		InitialCrossings: crossings,
		Stop:             StopMaxSweeps,
	}
	if crossings == 0 {
		res.Stop = StopOptimal
		return res, nil
	}

	var deadline time.Time
	if b.Timeout > 0 {
		deadline = time.Now().Add(b.Timeout)
	}

	stale := 0
	for i := 0; i < b.maxSweeps(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			res.Stop = StopTimeout
			break
		}

		next, err := b.sweep(ctx, g, cur, i)
		if err != nil {
			return nil, fmt.Errorf("sweep %d: %w", i, err)
		}
		c, err := ws.Count(g, next)
		if err != nil {
			return nil, fmt.Errorf("sweep %d: %w", i, err)
		}
		cur = next
		res.Sweeps = i + 1

		if c < res.Crossings {
			res.Layering = next.Clone()
			res.Crossings = c
			stale = 0
		} else {
			stale++
		}
		if b.Progress != nil {
			b.Progress(i, c, res.Crossings)
		}

		if res.Crossings == 0 {
			res.Stop = StopOptimal
			break
		}
		if stale >= b.maxStale() {
			res.Stop = StopConverged
			break
		}
	}
	return res, nil
}

// sweep returns a new layering with every rank but the reference end
// reordered. Even sweeps go down, odd sweeps go up.
func (b Barycentric) sweep(ctx context.Context, g *dag.DAG, cur dag.Layering, i int) (dag.Layering, error) {
	next := cur.Clone()
	n := len(next)
	if n < 2 {
		return next, nil
	}
	down := i%2 == 0
	biasRight := b.biasRight(i)

	ref := func(r int) int {
		if down {
			return r - 1
		}
		return r + 1
	}
	ranks := make([]int, 0, n-1)
	if down {
		for r := 1; r < n; r++ {
			ranks = append(ranks, r)
		}
	} else {
		for r := n - 2; r >= 0; r-- {
			ranks = append(ranks, r)
		}
	}

	if !b.Parallel {
		for _, r := range ranks {
			order, err := b.orderRank(g, r, next[r], next[ref(r)], biasRight)
			if err != nil {
				return nil, err
			}
			next[r] = order
		}
		return next, nil
	}

	eg, _ := errgroup.WithContext(ctx)
	for _, r := range ranks {
		eg.Go(func() error {
			order, err := b.orderRank(g, r, cur[r], cur[ref(r)], biasRight)
			if err != nil {
				return err
			}
			next[r] = order
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}

func (b Barycentric) orderRank(g *dag.DAG, r int, order, ref []string, biasRight bool) ([]string, error) {
	entries, err := Barycenters(order, ref, g.EdgesBetween(order, ref))
	if err != nil {
		return nil, fmt.Errorf("rank %d: %w", r, err)
	}
	var cg *ConstraintGraph
	if b.Constraints != nil {
		cg = b.Constraints.Constraints(r, order)
	}
	return Flatten(SortGroups(resolve(entries, cg), biasRight)), nil
}
