//go:build headless

package audio

// HeadlessBackend never opens a real OS audio stream; it exists so the
// engine core can run under headless builds and tests without a sound
// device. Start/Stop are no-ops; Close is idempotent.
type HeadlessBackend struct {
	started bool
}

func NewHeadlessBackend() *HeadlessBackend { return &HeadlessBackend{} }

func (b *HeadlessBackend) Open(cfg Config, fill func(out []byte)) error { return nil }

func (b *HeadlessBackend) Start() error { b.started = true; return nil }

func (b *HeadlessBackend) Stop() error { b.started = false; return nil }

func (b *HeadlessBackend) Close() error { b.started = false; return nil }
