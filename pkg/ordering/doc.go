// Package ordering reorders the nodes within each rank of a layered graph to
// reduce weighted edge crossings.
//
// # The Ordering Problem
//
// Once nodes are assigned to ranks, the drawing is decided by the order of
// nodes inside each rank. Finding the order with the fewest crossings is
// NP-hard even for two ranks, so this package implements the classic
// layer-sweep barycenter heuristic with support for ordering constraints.
//
// # Building Blocks
//
//   - [Barycenters] places each node at the weighted mean position of its
//     neighbours in a reference rank.
//   - [ConstraintGraph] holds "a before b" requirements within one rank.
//   - [ResolveConflicts] merges nodes whose barycenters contradict a
//     constraint into [Group] values that are placed contiguously.
//   - [SortGroups] and [Flatten] turn groups into the new rank order.
//
// # Sweeping
//
// [Barycentric] repeats downward and upward sweeps, counts crossings with
// [dag.CountCrossings] after each one, and keeps the best layering:
//
//	o := ordering.Barycentric{MaxSweeps: 24, MaxStale: 4}
//	res, err := o.Order(ctx, g, initial)
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Crossings, res.Stop)
//
// The run stops after MaxSweeps, after MaxStale sweeps without improvement,
// when no crossings are left, or when Timeout elapses. Cancelling the
// context aborts the run with the context's error.
//
// # Constraints
//
// A [Constrainer] supplies a constraint graph for each rank on every sweep.
// [ClusterConstraints] keeps members of a compound node in order and
// [StaticConstraints] applies a fixed list. Cyclic constraints are tolerated
// and broken deterministically.
//
// # Quality Presets
//
// [ForQuality] returns a configured orderer for [QualityFast],
// [QualityBalanced] or [QualityThorough].
package ordering
