package audio

// Bus composes exactly one effect chain over one source; ownership of
// both is exclusive to the bus.
type Bus struct {
	cached
	id     TargetID
	effect Effect
}

// NewBus wraps an already-constructed effect chain (whose root source
// is the bus's source). The bus owns the chain from this point on.
func NewBus(effect Effect) *Bus {
	return &Bus{id: allocTargetID(), effect: effect}
}

func (b *Bus) FrameStart() {
	b.frameStart()
	b.effect.FrameStart()
}

func (b *Bus) Render(info Info) *Block {
	return b.renderOnce(func(out *Block) {
		out.CopyFrom(b.effect.Render(info))
	})
}

func (b *Bus) Dispatch(event Event) {
	for _, t := range b.Targets() {
		if t.ID == event.Target {
			t.Dispatch(event)
			return
		}
	}
}

func (b *Bus) Targets() []Target {
	return append([]Target{{ID: b.id, Dispatch: func(Event) {}}}, b.effect.Targets()...)
}
