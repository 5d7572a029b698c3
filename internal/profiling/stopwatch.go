package profiling

import "time"

// Stopwatch measures elapsed time across repeated start/stop cycles and
// maintains running min/max plus a weighted moving average (WMA) of the
// elapsed durations. Not safe for concurrent use: every Stopwatch in
// this tree is owned by exactly one thread (the audio callback or the
// renderer thread), matching the realtime contract that the hot path
// driving it must never take a lock.
type Stopwatch struct {
	wmaFactor float32
	start     time.Time
	have      bool
	min       time.Duration
	max       time.Duration
	average   time.Duration
}

// NewStopwatch creates a stopwatch. wmaFactor is clamped to [0.01, 1] and
// is the weight the previous average keeps on each Stop: values closer
// to 1 make the average more stable and less sensitive to the latest
// sample (at 1.0 it stays at the first measurement), values closer to
// 0.01 make it follow the latest sample almost exactly.
func NewStopwatch(wmaFactor float32) *Stopwatch {
	if wmaFactor < 0.01 {
		wmaFactor = 0.01
	}
	if wmaFactor > 1.0 {
		wmaFactor = 1.0
	}
	return &Stopwatch{wmaFactor: wmaFactor, start: time.Now()}
}

// Start begins a timing interval.
func (s *Stopwatch) Start() {
	s.start = time.Now()
}

// Stop ends the current interval and folds it into min/max/average.
func (s *Stopwatch) Stop() {
	elapsed := time.Since(s.start)
	if !s.have {
		s.min, s.max, s.average = elapsed, elapsed, elapsed
		s.have = true
		return
	}
	if elapsed < s.min {
		s.min = elapsed
	}
	if elapsed > s.max {
		s.max = elapsed
	}
	oldUs := float32(s.average.Microseconds())
	newUs := float32(elapsed.Microseconds())
	s.average = time.Duration(oldUs*s.wmaFactor+newUs*(1-s.wmaFactor)) * time.Microsecond
}

// Scoped starts the stopwatch and returns a function that stops it; use
// with defer at the top of the scope being timed.
func (s *Stopwatch) Scoped() func() {
	s.Start()
	return s.Stop
}

// Get returns the current sample and whether any measurement has been taken.
func (s *Stopwatch) Get() (Sample[time.Duration], bool) {
	if !s.have {
		return Sample[time.Duration]{}, false
	}
	return NewSample(s.min, s.average, s.max), true
}

// Reset collapses min and max to the current average, so future extrema
// diverge from a stable base instead of an arbitrarily stale bound.
func (s *Stopwatch) Reset() {
	if !s.have {
		return
	}
	s.min = s.average
	s.max = s.average
}
