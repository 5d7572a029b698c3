package profiling

import (
	"testing"
	"time"
)

func TestStopwatchEmpty(t *testing.T) {
	sw := NewStopwatch(0.01)
	if _, ok := sw.Get(); ok {
		t.Fatalf("expected no sample before any Start/Stop")
	}
	sw.Reset()
	if _, ok := sw.Get(); ok {
		t.Fatalf("expected no sample after Reset with no measurements")
	}
}

func TestStopwatchSingle(t *testing.T) {
	sw := NewStopwatch(0.01)
	sw.Start()
	time.Sleep(50 * time.Millisecond)
	sw.Stop()

	sample, ok := sw.Get()
	if !ok {
		t.Fatalf("expected a sample")
	}
	if sample.Min() != sample.Max() || sample.Average() != sample.Max() {
		t.Fatalf("single sample should have min == average == max, got %+v", sample)
	}
	if sample.Average() < 45*time.Millisecond || sample.Average() > 90*time.Millisecond {
		t.Fatalf("average out of expected bounds: %v", sample.Average())
	}

	sw.Reset()
	after, _ := sw.Get()
	if after.Min() != after.Max() || after.Average() != after.Max() {
		t.Fatalf("reset should collapse min/max to average, got %+v", after)
	}
}

func TestStopwatchMultipleTracksExtrema(t *testing.T) {
	sw := NewStopwatch(0.5)
	for _, ms := range []time.Duration{20, 60, 100} {
		sw.Start()
		time.Sleep(ms * time.Millisecond)
		sw.Stop()
	}
	sample, ok := sw.Get()
	if !ok {
		t.Fatalf("expected a sample")
	}
	if sample.Min() >= sample.Max() {
		t.Fatalf("expected min < max, got min=%v max=%v", sample.Min(), sample.Max())
	}
	if sample.Average() <= sample.Min() || sample.Average() >= sample.Max() {
		t.Fatalf("expected min < average < max, got %+v", sample)
	}
}
