//go:build !headless

package audio

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// OtoBackend drives playback through oto's cross-platform output
// stream. The fill callback is stored behind an atomic pointer so the
// Read method — called from oto's own audio goroutine — never takes a
// lock on the hot path.
type OtoBackend struct {
	ctx     *oto.Context
	player  *oto.Player
	fill    atomic.Pointer[func([]byte)]
	mutex   sync.Mutex
	started bool
}

func NewOtoBackend() *OtoBackend {
	return &OtoBackend{}
}

func (b *OtoBackend) Open(cfg Config, fill func(out []byte)) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	opts := &oto.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return wrapErr("open", KindFailedToCreateBackend, "oto.NewContext", err)
	}
	<-ready

	b.ctx = ctx
	b.fill.Store(&fill)
	b.player = ctx.NewPlayer(b)
	return nil
}

// Read implements io.Reader for oto.Player: it is invoked on oto's
// callback thread and must return promptly without blocking.
func (b *OtoBackend) Read(p []byte) (int, error) {
	fn := b.fill.Load()
	if fn == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	(*fn)(p)
	return len(p), nil
}

func (b *OtoBackend) Start() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.started || b.player == nil {
		return nil
	}
	b.player.Play()
	b.started = true
	return nil
}

func (b *OtoBackend) Stop() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if !b.started || b.player == nil {
		return nil
	}
	b.player.Close()
	b.started = false
	return nil
}

func (b *OtoBackend) Close() error {
	_ = b.Stop()
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.player != nil {
		err := b.player.Close()
		b.player = nil
		return err
	}
	return nil
}
