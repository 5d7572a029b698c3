package render

import "sync"

// headlessView never opens a real window; it exists so the renderer
// loop can run in tests without a display, the render-side analogue of
// audio's HeadlessBackend.
type headlessView struct {
	inputs chan InputEvent
	closed chan struct{}
	once   sync.Once
}

// NewHeadlessView builds a View that immediately reports TickContinue
// forever until Close is called.
func NewHeadlessView(cfg WindowConfig) (View, error) {
	return &headlessView{
		inputs: make(chan InputEvent, 256),
		closed: make(chan struct{}),
	}, nil
}

func (v *headlessView) Tick() TickResult {
	select {
	case <-v.closed:
		return TickResult{Kind: TickClosed}
	default:
		return TickResult{Kind: TickContinue}
	}
}

func (v *headlessView) Inputs() <-chan InputEvent { return v.inputs }

func (v *headlessView) Dispatch(event OutputEvent) {}

func (v *headlessView) PasteText() (string, error) {
	return "", newErr("paste_text", KindViewTickError, "clipboard unavailable in headless view")
}

func (v *headlessView) Close() error {
	v.once.Do(func() { close(v.closed) })
	return nil
}

// push feeds a synthetic input event into the view's input channel,
// dropping it when the channel is full.
func (v *headlessView) push(e InputEvent) {
	select {
	case v.inputs <- e:
	default:
	}
}
