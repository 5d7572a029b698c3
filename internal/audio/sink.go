package audio

// SampleFormat selects the OS callback's output sample representation.
type SampleFormat int

const (
	FormatFloat32 SampleFormat = iota
	FormatInt16
)

// Sink is the graph root. Per block it renders (the output buffer may
// hold several), it runs FrameStart to invalidate the graph's
// per-frame render cache, then converts planar f32 to interleaved via
// the SIMD copy primitive; any short tail is filled with silence.
type Sink struct {
	root   Node
	format SampleFormat
	info   Info
	routes map[TargetID]func(Event)
}

func NewSink(root Node, sampleRate uint32, format SampleFormat) *Sink {
	s := &Sink{root: root, format: format, info: Info{SampleRate: sampleRate}}
	s.routes = make(map[TargetID]func(Event))
	for _, t := range root.Targets() {
		s.routes[t.ID] = t.Dispatch
	}
	return s
}

// Dispatch looks up the static routing table built at construction and
// invokes the addressed node's handler directly; no allocation, no
// graph walk, matching the realtime contract of the audio thread.
func (s *Sink) Dispatch(event Event) {
	if fn, ok := s.routes[event.Target]; ok {
		fn(event)
	}
}

// RenderFloat32 fills out with as many whole blocks as fit, in f32.
func (s *Sink) RenderFloat32(out []float32) {
	frames := len(out) / Channels
	i := 0
	for ; i+BlockSize <= frames; i += BlockSize {
		s.root.FrameStart()
		var ib InterleavedBlock[float32]
		CopyIntoInterleavedF32(&ib, s.root.Render(s.info))
		copy(out[i*Channels:(i+BlockSize)*Channels], ib[:])
		s.info = s.info.Advanced()
	}
	for ; i < frames; i++ {
		for c := 0; c < Channels; c++ {
			out[i*Channels+c] = 0
		}
	}
}

// RenderInt16 fills out with as many whole blocks as fit, in 16-bit PCM.
func (s *Sink) RenderInt16(out []int16) {
	frames := len(out) / Channels
	i := 0
	for ; i+BlockSize <= frames; i += BlockSize {
		s.root.FrameStart()
		var ib InterleavedBlock[int16]
		CopyIntoInterleavedI16(&ib, s.root.Render(s.info))
		copy(out[i*Channels:(i+BlockSize)*Channels], ib[:])
		s.info = s.info.Advanced()
	}
	for ; i < frames; i++ {
		for c := 0; c < Channels; c++ {
			out[i*Channels+c] = 0
		}
	}
}
