package audio

// Effect consumes a block and produces another. Bypass is a boolean
// that short-circuits processing, passing the input straight through.
type Effect interface {
	Node
	SetBypass(bypass bool)
}

// FuncEffect wraps a user-supplied per-block transform. Concrete DSP
// algorithms (filters, reverbs, delays) are out of scope for the engine
// core; this is the seam they plug into.
type FuncEffect struct {
	cached
	id      TargetID
	source  Node
	bypass  bool
	Process func(info Info, in, out *Block)
}

func NewFuncEffect(source Node, process func(info Info, in, out *Block)) *FuncEffect {
	return &FuncEffect{id: allocTargetID(), source: source, Process: process}
}

func (e *FuncEffect) SetBypass(bypass bool) { e.bypass = bypass }

func (e *FuncEffect) FrameStart() {
	e.frameStart()
	e.source.FrameStart()
}

func (e *FuncEffect) Render(info Info) *Block {
	return e.renderOnce(func(out *Block) {
		in := e.source.Render(info)
		if e.bypass {
			out.CopyFrom(in)
			return
		}
		e.Process(info, in, out)
	})
}

func (e *FuncEffect) Dispatch(event Event) {
	if event.Target == e.id {
		if b, ok := event.Payload.(bool); ok {
			e.SetBypass(b)
		}
	}
}

func (e *FuncEffect) Targets() []Target {
	return append([]Target{{ID: e.id, Dispatch: e.Dispatch}}, e.source.Targets()...)
}
