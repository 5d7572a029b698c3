package audio

import (
	"math"
	"time"

	"github.com/intuitionamiga/yage2/internal/profiling"
)

const (
	// EventsQueueCapacity bounds the lock-free event queue the logic
	// thread pushes into and the audio callback drains.
	EventsQueueCapacity = 1024
	// MonitorQueueCapacity bounds the queue PlayerMonitoring frames are
	// published to for the outside world.
	MonitorQueueCapacity = 32

	monitorInterval = time.Second
)

// Monitoring is the ~1 Hz snapshot of the player's realtime health.
type Monitoring struct {
	RenderTPS  profiling.Sample[float32]
	EventsTPS  profiling.Sample[float32]
	Render     profiling.Sample[time.Duration]
	Events     profiling.Sample[time.Duration]
	Load       profiling.Sample[float32]
	SampleRate uint32
	Channels   int
	BlockSize  int
}

// playerMonitor accumulates per-callback timings and publishes a
// Monitoring frame no more often than monitorInterval.
type playerMonitor struct {
	enabled    bool
	renderTPS  *profiling.Counter
	eventsTPS  *profiling.Counter
	render     *profiling.Stopwatch
	events     *profiling.Stopwatch
	lastPublish time.Time
	sampleRate uint32
}

func newPlayerMonitor(enabled bool, sampleRate uint32) *playerMonitor {
	return &playerMonitor{
		enabled:    enabled,
		renderTPS:  profiling.NewCounter(0.2),
		eventsTPS:  profiling.NewCounter(0.2),
		render:     profiling.NewStopwatch(0.2),
		events:     profiling.NewStopwatch(0.2),
		lastPublish: time.Now(),
		sampleRate: sampleRate,
	}
}

func (m *playerMonitor) eventsStart() (stop func()) {
	if !m.enabled {
		return func() {}
	}
	m.eventsTPS.Count(1)
	return m.events.Scoped()
}

func (m *playerMonitor) renderStart() (stop func()) {
	if !m.enabled {
		return func() {}
	}
	m.renderTPS.Count(1)
	return m.render.Scoped()
}

// publish folds the interval's counters into samples and, once per
// monitorInterval, emits a Monitoring frame computed from them.
func (m *playerMonitor) publish(channels, blockSize int, out *RingQueue[Monitoring]) {
	if !m.enabled {
		return
	}
	m.renderTPS.Update()
	m.eventsTPS.Update()

	if time.Since(m.lastPublish) < monitorInterval {
		return
	}
	m.lastPublish = time.Now()

	renderTPS, _ := m.renderTPS.Get()
	eventsTPS, _ := m.eventsTPS.Get()
	render, _ := m.render.Get()
	events, _ := m.events.Get()

	// load is sample_rate / render_tps / block_size: sample_rate /
	// render_tps gives samples per render call, and dividing by block
	// size expresses that as the number of blocks each callback renders.
	load := float32(0)
	if tps := renderTPS.Average(); tps > 0 {
		load = float32(m.sampleRate) / tps / float32(blockSize)
		if math.IsNaN(float64(load)) || math.IsInf(float64(load), 0) {
			load = 0
		}
	}

	out.Push(Monitoring{
		RenderTPS:  renderTPS,
		EventsTPS:  eventsTPS,
		Render:     render,
		Events:     events,
		Load:       profiling.NewSample(load, load, load),
		SampleRate: m.sampleRate,
		Channels:   channels,
		BlockSize:  blockSize,
	})
}

// Player owns the backend callback, the bounded event queue, and the
// monitor. Construction validates configuration and opens the backend;
// from that point the audio thread runs entirely inside the callback
// Open registers.
type Player struct {
	backend Backend
	sink    *Sink
	events  *RingQueue[Event]
	monitor *playerMonitor
	monitorQueue *RingQueue[Monitoring]
	cfg     Config
}

// NewPlayer validates sample_rate > 0, opens the backend with
// {sample_rate, channels=Channels, buffer_size=BlockSize}, and registers
// a callback that drains events into the sink, renders, then updates
// the monitor.
func NewPlayer(backend Backend, root Node, sampleRate uint32, monitorEnabled bool) (*Player, error) {
	if sampleRate == 0 {
		return nil, newErr("new", KindInvalidSampleRate, "sample rate must be > 0")
	}

	cfg := Config{SampleRate: sampleRate, Channels: Channels, BlockSize: BlockSize}
	p := &Player{
		backend:      backend,
		sink:         NewSink(root, sampleRate, FormatFloat32),
		events:       NewRingQueue[Event](EventsQueueCapacity),
		monitor:      newPlayerMonitor(monitorEnabled, sampleRate),
		monitorQueue: NewRingQueue[Monitoring](MonitorQueueCapacity),
		cfg:          cfg,
	}

	if err := backend.Open(cfg, p.callback); err != nil {
		return nil, wrapErr("new", KindFailedToStartBackend, "backend.Open", err)
	}
	if err := backend.Start(); err != nil {
		return nil, wrapErr("new", KindFailedToStartBackend, "backend.Start", err)
	}
	return p, nil
}

// callback runs on the backend's own thread. It must not allocate,
// lock, or block: the event queue is wait-free in the bounded case, and
// playerMonitor's Stopwatch/Counter carry no lock of their own since
// this callback is their only writer.
func (p *Player) callback(out []byte) {
	stopEvents := p.monitor.eventsStart()
	for {
		event, ok := p.events.Pop()
		if !ok {
			break
		}
		p.sink.Dispatch(event)
	}
	stopEvents()

	stopRender := p.monitor.renderStart()
	floats := bytesToFloat32(out)
	p.sink.RenderFloat32(floats)
	stopRender()

	p.monitor.publish(p.cfg.Channels, p.cfg.BlockSize, p.monitorQueue)
}

// PushEvent enqueues one event for the callback to dispatch on its next
// block. Returns false without blocking if the queue is full — the
// producer sees this as a dropped event, never a panic.
func (p *Player) PushEvent(event Event) bool {
	return p.events.Push(event)
}

// PollMonitoring returns the next buffered Monitoring frame, if any.
func (p *Player) PollMonitoring() (Monitoring, bool) {
	return p.monitorQueue.Pop()
}

// Close stops and closes the backend; the queues drain naturally since
// nothing reads from them once the callback stops firing.
func (p *Player) Close() error {
	return p.backend.Close()
}
