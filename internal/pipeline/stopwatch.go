package pipeline

import (
	"fmt"
	"time"
)

// Profiled stages.
const (
	StageImport     = "import"
	StageConversion = "conversion"
)

// Stopwatch accumulates wall time per stage. A nil Stopwatch measures
// nothing.
type Stopwatch struct {
	now    func() time.Time
	totals map[string]time.Duration
}

// NewStopwatch creates an enabled stopwatch.
func NewStopwatch() *Stopwatch {
	return &Stopwatch{now: time.Now, totals: make(map[string]time.Duration)}
}

// Start begins timing stage and returns the function that stops it.
func (s *Stopwatch) Start(stage string) func() {
	if s == nil {
		return func() {}
	}
	begin := s.now()
	return func() {
		s.totals[stage] += s.now().Sub(begin)
	}
}

// Total returns the accumulated time of stage.
func (s *Stopwatch) Total(stage string) time.Duration {
	if s == nil {
		return 0
	}
	return s.totals[stage]
}

// Summary formats the import and conversion totals in seconds.
func (s *Stopwatch) Summary() string {
	return fmt.Sprintf("Import took %.3f seconds, conversion %.3f seconds",
		s.Total(StageImport).Seconds(), s.Total(StageConversion).Seconds())
}
