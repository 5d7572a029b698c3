package render

import (
	"time"

	"github.com/intuitionamiga/yage2/internal/profiling"
)

// monitorInterval matches monitor.rs's 200ms publish cadence (~5 Hz),
// distinct from the audio player's 1 Hz cadence.
const monitorInterval = 200 * time.Millisecond

// RendererMonitorEvent is the ~5 Hz snapshot of the renderer's
// realtime health, mirroring RendererMonitorEvent in monitor.rs.
type RendererMonitorEvent struct {
	FPS             profiling.Sample[float32]
	View            profiling.Sample[time.Duration]
	Events          profiling.Sample[time.Duration]
	Render          profiling.Sample[time.Duration]
	PassNames       []string
	PassCPUTimes    []profiling.Sample[time.Duration]
	PassGPUTimes    []profiling.Sample[time.Duration]
	DrawnPrimitives profiling.Sample[float32]
	DrawCalls       profiling.Sample[float32]
	Load            profiling.Sample[float32]
	EpochSkipped    bool
	EpochSkips      uint64
}

// rendererMonitor accumulates per-frame timings; when disabled every
// method is a cheap no-op, the Go equivalent of swapping in
// DummyRendererMonitor.
type rendererMonitor struct {
	enabled bool

	fps            *profiling.Counter
	view           *profiling.Stopwatch
	events         *profiling.Stopwatch
	render         *profiling.Stopwatch
	drawCalls      *profiling.Counter
	drawnPrims     *profiling.Counter
	passNames      []string
	cpuPassSamples []profiling.Sample[time.Duration]
	gpuPassSamples []profiling.Sample[time.Duration]
	lastPublish    time.Time
	epochSkipped   bool
	epochSkips     uint64
}

func newRendererMonitor(enabled bool) *rendererMonitor {
	return &rendererMonitor{
		enabled:     enabled,
		fps:         profiling.NewCounter(0.9),
		view:        profiling.NewStopwatch(0.9),
		events:      profiling.NewStopwatch(0.9),
		render:      profiling.NewStopwatch(0.9),
		drawCalls:   profiling.NewCounter(0.9),
		drawnPrims:  profiling.NewCounter(0.9),
		lastPublish: time.Now(),
	}
}

func (m *rendererMonitor) setPassNames(names []string) {
	m.passNames = append([]string(nil), names...)
	m.cpuPassSamples = make([]profiling.Sample[time.Duration], len(names))
	m.gpuPassSamples = make([]profiling.Sample[time.Duration], len(names))
}

func (m *rendererMonitor) viewStart() (stop func()) {
	if !m.enabled {
		return func() {}
	}
	m.fps.Count(1)
	return m.view.Scoped()
}

func (m *rendererMonitor) eventsScope() (stop func()) {
	if !m.enabled {
		return func() {}
	}
	return m.events.Scoped()
}

func (m *rendererMonitor) renderStart() (stop func()) {
	if !m.enabled {
		return func() {}
	}
	return m.render.Scoped()
}

// renderStop folds a frame's pass result, CPU durations, and epoch-skip
// status into the monitor, publishing a RendererMonitorEvent at most
// once per monitorInterval. skipped reports whether this frame's
// triple-buffer read observed an epoch other than the one expected
// (scenario S5), so a skip is surfaced to the host rather than only
// snapped silently.
func (m *rendererMonitor) renderStop(result PassResult, timers *ChainTimers, skipped bool, out chan<- RendererMonitorEvent) {
	if !m.enabled {
		return
	}
	m.drawnPrims.Count(int(result.Primitives))
	m.drawCalls.Count(int(result.Calls))
	if skipped {
		m.epochSkipped = true
		m.epochSkips++
	}

	for i, d := range timers.CPU {
		if i < len(m.cpuPassSamples) {
			m.cpuPassSamples[i] = d
		}
	}
	if timers.GPUSupported {
		for i, d := range timers.GPU {
			if i < len(m.gpuPassSamples) {
				m.gpuPassSamples[i] = d
			}
		}
	}

	if time.Since(m.lastPublish) < monitorInterval {
		return
	}
	m.lastPublish = time.Now()

	m.fps.Update()
	m.drawnPrims.Update()
	m.drawCalls.Update()

	fps, _ := m.fps.Get()
	view, _ := m.view.Get()
	events, _ := m.events.Get()
	render, _ := m.render.Get()

	minTime := view.Min() + events.Min() + render.Min()
	avgTime := view.Average() + events.Average() + render.Average()
	maxTime := view.Max() + events.Max() + render.Max()
	load := profiling.NewSample(
		float32(minTime.Seconds())*fps.Min(),
		float32(avgTime.Seconds())*fps.Average(),
		float32(maxTime.Seconds())*fps.Max(),
	)

	drawnPrims, _ := m.drawnPrims.Get()
	drawCalls, _ := m.drawCalls.Get()

	frame := RendererMonitorEvent{
		FPS:             fps,
		View:            view,
		Events:          events,
		Render:          render,
		PassNames:       append([]string(nil), m.passNames...),
		PassCPUTimes:    append([]profiling.Sample[time.Duration](nil), m.cpuPassSamples...),
		PassGPUTimes:    append([]profiling.Sample[time.Duration](nil), m.gpuPassSamples...),
		DrawnPrimitives: drawnPrims,
		DrawCalls:       drawCalls,
		Load:            load,
		EpochSkipped:    m.epochSkipped,
		EpochSkips:      m.epochSkips,
	}
	m.epochSkipped = false

	select {
	case out <- frame:
	default:
	}
}
