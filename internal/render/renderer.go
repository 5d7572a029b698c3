package render

import (
	"sync/atomic"
	"time"

	"github.com/intuitionamiga/yage2/internal/profiling"
)

// nextExpectedEpoch implements the renderer's epoch tracking: if the
// observed frame matches what was expected, advance by one; otherwise
// the logic thread skipped ahead, so snap to the observed epoch and
// advance from there.
func nextExpectedEpoch(expected, observed uint64) uint64 {
	if observed != expected {
		expected = observed
	}
	return expected + 1
}

func toDurationSamples(durations []time.Duration) []profiling.Sample[time.Duration] {
	samples := make([]profiling.Sample[time.Duration], len(durations))
	for i, d := range durations {
		samples[i] = profiling.NewSample(d, d, d)
	}
	return samples
}

// Config bundles what the renderer thread needs to stand itself up:
// window geometry, synchronization mode, and whether to publish
// monitor frames.
type Config struct {
	Window     WindowConfig
	Sync       SyncPair
	Monitoring bool
}

// PassEventCapacity bounds the render-pass event queue; a full queue
// drops the push rather than blocking the caller.
const PassEventCapacity = 256

// MonitorEventCapacity bounds the renderer monitor publish queue.
const MonitorEventCapacity = 32

// Renderer owns the renderer thread: a View, a Backend, a pass chain,
// and the triple-buffered scene hand-off. E is the render-pass event
// payload type the host's passes dispatch.
type Renderer[E any] struct {
	stop atomic.Bool

	view     View
	backend  Backend
	pipeline *RenderPipeline[E]
	monitor  *rendererMonitor

	dataStream    *TripleBuffer[DataStreamFrame]
	expectedEpoch uint64

	passEvents chan RenderPassEvent[E]
	outputs    chan OutputEvent
	monitorCh  chan RendererMonitorEvent

	before Rendezvous
	after  Rendezvous

	done chan error
}

// NewRenderer opens the view and backend, builds the pipeline via
// constructor, and starts the renderer thread. constructor receives
// the backend so it can build passes bound to its draw-recording API.
func NewRenderer[E any](
	cfg Config,
	newView func(WindowConfig) (View, error),
	newBackend func() (Backend, error),
	constructor func(Backend) (*RenderPipeline[E], error),
) (*Renderer[E], error) {
	view, err := newView(cfg.Window)
	if err != nil {
		return nil, wrapErr("new_renderer", KindViewCreateError, "open view", err)
	}

	backend, err := newBackend()
	if err != nil {
		_ = view.Close()
		return nil, wrapErr("new_renderer", KindBackendCreateError, "create backend", err)
	}

	pipeline, err := constructor(backend)
	if err != nil {
		_ = view.Close()
		_ = backend.Close()
		return nil, wrapErr("new_renderer", KindPipelineCreateError, "construct pipeline", err)
	}

	before, after := cfg.Sync.Before, cfg.Sync.After
	if before == nil || after == nil {
		before, after = dummyRendezvous{}, dummyRendezvous{}
	}

	monitor := newRendererMonitor(cfg.Monitoring)
	monitor.setPassNames(pipeline.Names())

	r := &Renderer[E]{
		view:          view,
		backend:       backend,
		pipeline:      pipeline,
		monitor:       monitor,
		dataStream:    NewTripleBuffer(DataStreamFrame{}),
		expectedEpoch: 0,
		passEvents:    make(chan RenderPassEvent[E], PassEventCapacity),
		outputs:       make(chan OutputEvent, PassEventCapacity),
		monitorCh:     make(chan RendererMonitorEvent, MonitorEventCapacity),
		before:        before,
		after:         after,
		done:          make(chan error, 1),
	}

	go r.run()
	return r, nil
}

// WriteFrame publishes a new scene snapshot for the renderer to pick
// up on its next frame. Producer-only.
func (r *Renderer[E]) WriteFrame(frame DataStreamFrame) {
	r.dataStream.Write(frame)
}

// PushPassEvent enqueues one render-pass event; returns false without
// blocking if the queue is full.
func (r *Renderer[E]) PushPassEvent(event RenderPassEvent[E]) bool {
	select {
	case r.passEvents <- event:
		return true
	default:
		return false
	}
}

// PushOutput enqueues one window-mutating command; returns false
// without blocking if the queue is full.
func (r *Renderer[E]) PushOutput(event OutputEvent) bool {
	select {
	case r.outputs <- event:
		return true
	default:
		return false
	}
}

// Inputs exposes the view's translated OS input events.
func (r *Renderer[E]) Inputs() <-chan InputEvent { return r.view.Inputs() }

// PollMonitoring returns the next buffered monitor frame, if any.
func (r *Renderer[E]) PollMonitoring() (RendererMonitorEvent, bool) {
	select {
	case frame := <-r.monitorCh:
		return frame, true
	default:
		return RendererMonitorEvent{}, false
	}
}

// Stop requests the renderer thread exit by setting the stop flag; it
// does not itself release the rendezvous points. The thread releases
// both when it leaves its loop, and Close releases them too before it
// blocks until the thread has exited.
func (r *Renderer[E]) Stop() {
	r.stop.Store(true)
}

// Close stops the renderer thread, waits for it to exit, and releases
// the view and backend.
func (r *Renderer[E]) Close() error {
	r.Stop()
	r.before.Unlock()
	r.after.Unlock()
	err := <-r.done
	_ = r.view.Close()
	_ = r.backend.Close()
	return err
}

// run is the renderer thread's frame loop, the eight steps from the
// component design: drain pass events, check stop, rendezvous before,
// drain outputs, pump the view, render, rendezvous after, then let the
// backend present.
func (r *Renderer[E]) run() {
	var finalErr error

	for !r.stop.Load() {
		r.drainPassEvents()

		if r.stop.Load() {
			break
		}

		r.before.Wait()

		r.drainOutputs()

		stopView := r.monitor.viewStart()
		tick := r.view.Tick()
		stopView()
		switch tick.Kind {
		case TickClosed:
			r.stop.Store(true)
		case TickFailed:
			finalErr = wrapErr("run", KindViewTickError, "view.Tick", tick.Err)
			r.stop.Store(true)
		}
		if r.stop.Load() {
			break
		}

		if err := r.renderFrame(); err != nil {
			finalErr = err
			r.stop.Store(true)
			break
		}

		r.after.Wait()

		if err := r.backend.AfterFrame(); err != nil {
			finalErr = wrapErr("run", KindBackendRenderError, "backend.AfterFrame", err)
			r.stop.Store(true)
			break
		}
	}

	r.before.Unlock()
	r.after.Unlock()
	r.done <- finalErr
}

func (r *Renderer[E]) drainPassEvents() {
	stop := r.monitor.eventsScope()
	defer stop()
	for {
		select {
		case event := <-r.passEvents:
			r.pipeline.Dispatch(event)
		default:
			return
		}
	}
}

func (r *Renderer[E]) drainOutputs() {
	for {
		select {
		case event := <-r.outputs:
			r.view.Dispatch(event)
		default:
			return
		}
	}
}

// renderFrame implements step 6: before_frame, epoch-aware triple
// buffer read with snap-on-skip (scenario S5), then chain execute.
// backend.AfterFrame (step 8) is issued by run, after the after
// rendezvous (step 7) has completed.
func (r *Renderer[E]) renderFrame() error {
	stopRender := r.monitor.renderStart()
	defer stopRender()

	if err := r.backend.BeforeFrame(); err != nil {
		return wrapErr("render_frame", KindBackendRenderError, "backend.BeforeFrame", err)
	}

	frame := r.dataStream.Read()
	skipped := frame.Epoch != r.expectedEpoch
	r.expectedEpoch = nextExpectedEpoch(r.expectedEpoch, frame.Epoch)

	ctx := newChainExecuteCtx(frame.Renderables, r.backend, len(r.pipeline.passes))
	result, err := r.pipeline.Execute(ctx)
	if err != nil {
		return err
	}

	timers := ChainTimers{Names: r.pipeline.Names(), CPU: toDurationSamples(ctx.durations)}
	r.monitor.renderStop(result, &timers, skipped, r.monitorCh)
	return nil
}
