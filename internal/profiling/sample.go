// Package profiling provides the weighted-moving-average timing and
// rate primitives shared by the audio player and renderer monitors.
package profiling

// Sample holds a min/average/max triple for one monitored quantity.
// D is typically time.Duration (Stopwatch) or float32 (Counter).
type Sample[D any] struct {
	min     D
	average D
	max     D
}

func NewSample[D any](min, average, max D) Sample[D] {
	return Sample[D]{min: min, average: average, max: max}
}

func (s Sample[D]) Min() D     { return s.min }
func (s Sample[D]) Average() D { return s.average }
func (s Sample[D]) Max() D     { return s.max }
