package ordering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/rankorder/pkg/dag"
)

// Orderer decides the left-to-right order of nodes within each rank.
type Orderer interface {
	// Order improves the given layering of g.
	Order(ctx context.Context, g *dag.DAG, initial dag.Layering) (*Result, error)
	// OrderRows builds an initial layering from g's rows and improves it.
	OrderRows(ctx context.Context, g *dag.DAG) (*Result, error)
}

// StopReason explains why an ordering run ended.
type StopReason string

const (
	StopMaxSweeps StopReason = "max-sweeps"
	StopConverged StopReason = "converged"
	StopOptimal   StopReason = "optimal"
	StopTimeout   StopReason = "timeout"
)

// Result is the outcome of an ordering run.
type Result struct {
	// Layering is the best layering found; it has the shape of the input.
	Layering dag.Layering
	// Crossings is the weighted crossing count of Layering.
	Crossings float64
	// InitialCrossings is the weighted crossing count of the input.
	InitialCrossings float64
	// Sweeps is the number of sweeps performed.
	Sweeps int
	Stop   StopReason
}

// Quality selects a preset trade-off between run time and result quality.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityThorough
)

const (
	DefaultMaxSweeps = 24
	DefaultMaxStale  = 4
)

// String returns the lowercase preset name.
func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBalanced:
		return "balanced"
	case QualityThorough:
		return "thorough"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

// ParseQuality parses a preset name as produced by [Quality.String].
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return QualityFast, nil
	case "", "balanced":
		return QualityBalanced, nil
	case "thorough":
		return QualityThorough, nil
	}
	return 0, fmt.Errorf("unknown quality %q (want fast, balanced or thorough)", s)
}

// ForQuality returns a [Barycentric] configured for the preset.
func ForQuality(q Quality) Barycentric {
	switch q {
	case QualityFast:
		return Barycentric{MaxSweeps: 8, MaxStale: 2, Timeout: 100 * time.Millisecond}
	case QualityThorough:
		return Barycentric{MaxSweeps: 128, MaxStale: 16, Timeout: time.Minute, Init: DepthFirst{}}
	default:
		return Barycentric{MaxSweeps: DefaultMaxSweeps, MaxStale: DefaultMaxStale, Timeout: 5 * time.Second}
	}
}
