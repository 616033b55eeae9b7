package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// heartbeat is how often a long run logs that it is still sweeping.
const heartbeat = 10 * time.Second

// sweepReporter turns iterator progress into log lines and spinner updates.
// It logs the first sweep, every improvement and a periodic heartbeat; with
// --verbose the runner additionally logs each sweep at debug level.
//
// Progress is only called from the goroutine running Order.
type sweepReporter struct {
	logger   *log.Logger
	spinner  *Spinner
	lastBest float64
	started  bool
	start    time.Time
	lastLog  time.Time
}

func newSweepReporter(logger *log.Logger, spinner *Spinner) *sweepReporter {
	return &sweepReporter{logger: logger, spinner: spinner, start: time.Now()}
}

// onSweep matches pipeline.Options.Progress.
func (r *sweepReporter) onSweep(sweep int, crossings, best float64) {
	if r.spinner != nil {
		r.spinner.SetMessage(fmt.Sprintf("Ordering... sweep %d, %g crossings", sweep+1, best))
	}

	switch {
	case !r.started:
		r.started = true
		r.logger.Infof("Sweep 1: %g crossings", crossings)
		r.lastLog = time.Now()
	case best < r.lastBest:
		r.logger.Infof("Improved: %g crossings (↓%g)", best, r.lastBest-best)
		r.lastLog = time.Now()
	default:
		if time.Since(r.lastLog) >= heartbeat {
			elapsed := time.Since(r.start).Truncate(time.Second)
			r.logger.Infof("Sweeping... %v elapsed, sweep %d, best %g crossings", elapsed, sweep+1, best)
			r.lastLog = time.Now()
		}
	}
	r.lastBest = best
}
