package audio

// FuncSource renders a block by calling a user-supplied generator once
// per frame. Concrete waveform/clip decoders are out of scope for the
// engine core (they're collaborators specified only at this interface);
// this is the seam they plug into.
type FuncSource struct {
	cached
	id       TargetID
	Generate func(info Info, out *Block)
}

func NewFuncSource(generate func(info Info, out *Block)) *FuncSource {
	return &FuncSource{id: allocTargetID(), Generate: generate}
}

func (s *FuncSource) FrameStart() { s.frameStart() }

func (s *FuncSource) Render(info Info) *Block {
	return s.renderOnce(func(out *Block) { s.Generate(info, out) })
}

func (s *FuncSource) Dispatch(Event) {}

func (s *FuncSource) Targets() []Target {
	return []Target{{ID: s.id, Dispatch: s.Dispatch}}
}

// NewConstantSource builds a FuncSource that emits the same value on
// every sample of every channel, useful both for tests and as the
// trivial case of a DC/tone generator.
func NewConstantSource(value float32) *FuncSource {
	return NewFuncSource(func(_ Info, out *Block) {
		for c := 0; c < Channels; c++ {
			for i := range out[c] {
				out[c][i] = value
			}
		}
	})
}

// MultiplexerSource sums N homogeneous children with per-child gain:
// output = Σ gain_i · child_i, computed via ScaleAdd so it dispatches
// through the SIMD policy like any other mix.
type MultiplexerSource[T Node] struct {
	cached
	id       TargetID
	children []T
	mix      []float32
}

func NewMultiplexerSource[T Node](children []T, mix []float32) *MultiplexerSource[T] {
	if len(children) != len(mix) {
		panic("audio: multiplexer children/mix length mismatch")
	}
	return &MultiplexerSource[T]{id: allocTargetID(), children: children, mix: mix}
}

func (m *MultiplexerSource[T]) FrameStart() {
	m.frameStart()
	for _, c := range m.children {
		c.FrameStart()
	}
}

func (m *MultiplexerSource[T]) Render(info Info) *Block {
	return m.renderOnce(func(out *Block) {
		Silence(out)
		for i, c := range m.children {
			ScaleAdd(out, c.Render(info), m.mix[i])
		}
	})
}

func (m *MultiplexerSource[T]) Dispatch(event Event) {
	for _, t := range m.Targets() {
		if t.ID == event.Target {
			t.Dispatch(event)
			return
		}
	}
}

func (m *MultiplexerSource[T]) Targets() []Target {
	targets := []Target{{ID: m.id, Dispatch: func(Event) {}}}
	for _, c := range m.children {
		targets = append(targets, c.Targets()...)
	}
	return targets
}

// Multiplexer2Source sums two heterogeneous children, each with its own
// gain. Multiplexer1Source/3Source/4Source follow the same shape for
// one, three, and four distinct child node types.
type Multiplexer2Source[T1, T2 Node] struct {
	cached
	id         TargetID
	a          T1
	b          T2
	mixA, mixB float32
}

func NewMultiplexer2Source[T1, T2 Node](a T1, b T2, mixA, mixB float32) *Multiplexer2Source[T1, T2] {
	return &Multiplexer2Source[T1, T2]{id: allocTargetID(), a: a, b: b, mixA: mixA, mixB: mixB}
}

func (m *Multiplexer2Source[T1, T2]) FrameStart() {
	m.frameStart()
	m.a.FrameStart()
	m.b.FrameStart()
}

func (m *Multiplexer2Source[T1, T2]) Render(info Info) *Block {
	return m.renderOnce(func(out *Block) {
		Silence(out)
		ScaleAdd(out, m.a.Render(info), m.mixA)
		ScaleAdd(out, m.b.Render(info), m.mixB)
	})
}

func (m *Multiplexer2Source[T1, T2]) Dispatch(Event) {}

func (m *Multiplexer2Source[T1, T2]) Targets() []Target {
	targets := []Target{{ID: m.id, Dispatch: func(Event) {}}}
	targets = append(targets, m.a.Targets()...)
	targets = append(targets, m.b.Targets()...)
	return targets
}

// Multiplexer1Source is the degenerate single-child case: still useful
// as a gain stage ahead of a bus.
type Multiplexer1Source[T1 Node] struct {
	cached
	id   TargetID
	a    T1
	mixA float32
}

func NewMultiplexer1Source[T1 Node](a T1, mixA float32) *Multiplexer1Source[T1] {
	return &Multiplexer1Source[T1]{id: allocTargetID(), a: a, mixA: mixA}
}

func (m *Multiplexer1Source[T1]) FrameStart() {
	m.frameStart()
	m.a.FrameStart()
}

func (m *Multiplexer1Source[T1]) Render(info Info) *Block {
	return m.renderOnce(func(out *Block) {
		Silence(out)
		ScaleAdd(out, m.a.Render(info), m.mixA)
	})
}

func (m *Multiplexer1Source[T1]) Dispatch(Event) {}

func (m *Multiplexer1Source[T1]) Targets() []Target {
	return append([]Target{{ID: m.id, Dispatch: func(Event) {}}}, m.a.Targets()...)
}

// Multiplexer3Source sums three heterogeneous children.
type Multiplexer3Source[T1, T2, T3 Node] struct {
	cached
	id               TargetID
	a                T1
	b                T2
	c                T3
	mixA, mixB, mixC float32
}

func NewMultiplexer3Source[T1, T2, T3 Node](a T1, b T2, c T3, mixA, mixB, mixC float32) *Multiplexer3Source[T1, T2, T3] {
	return &Multiplexer3Source[T1, T2, T3]{id: allocTargetID(), a: a, b: b, c: c, mixA: mixA, mixB: mixB, mixC: mixC}
}

func (m *Multiplexer3Source[T1, T2, T3]) FrameStart() {
	m.frameStart()
	m.a.FrameStart()
	m.b.FrameStart()
	m.c.FrameStart()
}

func (m *Multiplexer3Source[T1, T2, T3]) Render(info Info) *Block {
	return m.renderOnce(func(out *Block) {
		Silence(out)
		ScaleAdd(out, m.a.Render(info), m.mixA)
		ScaleAdd(out, m.b.Render(info), m.mixB)
		ScaleAdd(out, m.c.Render(info), m.mixC)
	})
}

func (m *Multiplexer3Source[T1, T2, T3]) Dispatch(Event) {}

func (m *Multiplexer3Source[T1, T2, T3]) Targets() []Target {
	targets := []Target{{ID: m.id, Dispatch: func(Event) {}}}
	targets = append(targets, m.a.Targets()...)
	targets = append(targets, m.b.Targets()...)
	targets = append(targets, m.c.Targets()...)
	return targets
}

// Multiplexer4Source sums four heterogeneous children.
type Multiplexer4Source[T1, T2, T3, T4 Node] struct {
	cached
	id                     TargetID
	a                      T1
	b                      T2
	c                      T3
	d                      T4
	mixA, mixB, mixC, mixD float32
}

func NewMultiplexer4Source[T1, T2, T3, T4 Node](a T1, b T2, c T3, d T4, mixA, mixB, mixC, mixD float32) *Multiplexer4Source[T1, T2, T3, T4] {
	return &Multiplexer4Source[T1, T2, T3, T4]{id: allocTargetID(), a: a, b: b, c: c, d: d, mixA: mixA, mixB: mixB, mixC: mixC, mixD: mixD}
}

func (m *Multiplexer4Source[T1, T2, T3, T4]) FrameStart() {
	m.frameStart()
	m.a.FrameStart()
	m.b.FrameStart()
	m.c.FrameStart()
	m.d.FrameStart()
}

func (m *Multiplexer4Source[T1, T2, T3, T4]) Render(info Info) *Block {
	return m.renderOnce(func(out *Block) {
		Silence(out)
		ScaleAdd(out, m.a.Render(info), m.mixA)
		ScaleAdd(out, m.b.Render(info), m.mixB)
		ScaleAdd(out, m.c.Render(info), m.mixC)
		ScaleAdd(out, m.d.Render(info), m.mixD)
	})
}

func (m *Multiplexer4Source[T1, T2, T3, T4]) Dispatch(Event) {}

func (m *Multiplexer4Source[T1, T2, T3, T4]) Targets() []Target {
	targets := []Target{{ID: m.id, Dispatch: func(Event) {}}}
	targets = append(targets, m.a.Targets()...)
	targets = append(targets, m.b.Targets()...)
	targets = append(targets, m.c.Targets()...)
	targets = append(targets, m.d.Targets()...)
	return targets
}
