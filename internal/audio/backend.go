package audio

// Config carries the parameters the backend opens its OS audio stream
// with. Channels and BlockSize are the engine's fixed constants; only
// SampleRate is genuinely configurable per Player.
type Config struct {
	SampleRate uint32
	Channels   int
	BlockSize  int
}

// Backend owns one OS-level audio output stream. Fill is registered at
// Open time and is invoked on the backend's own callback thread every
// time the OS wants more samples; it must not allocate, lock, or block.
type Backend interface {
	Open(cfg Config, fill func(out []byte)) error
	Start() error
	Stop() error
	Close() error
}
