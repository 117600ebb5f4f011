package observe

import "time"

// Timing brackets one invocation
type Timing struct {
	Start time.Time
	End   time.Time
}

// StartTiming starts the clock now
func StartTiming() *Timing {
	return &Timing{Start: time.Now()}
}

// Stop records the end time once and returns the elapsed time.
// Later calls keep the first end time.
func (t *Timing) Stop() time.Duration {
	if t.End.IsZero() {
		t.End = time.Now()
	}
	return t.Elapsed()
}

// Elapsed is the time since Start, frozen once stopped
func (t *Timing) Elapsed() time.Duration {
	if t.End.IsZero() {
		return time.Since(t.Start)
	}
	return t.End.Sub(t.Start)
}
