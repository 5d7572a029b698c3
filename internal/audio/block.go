// Package audio implements the realtime block-based audio graph:
// sources, effects, multiplexers, a bus, and an interleaved sink driven
// by an OS callback, fed through a lock-free event queue.
package audio

const (
	// BlockSize is the number of frames processed per graph render call.
	// Must stay a power of two: the SIMD dispatch policy gates
	// acceleration on exact divisibility by each backend's vector width.
	BlockSize = 128
	// Channels is fixed at stereo.
	Channels = 2
)

// PlanarBlock holds one channel's samples contiguously, channel-major.
// This is the native shape produced by sources and consumed by effects.
// The graph's live currency is Block = PlanarBlock[float32]; other
// element types exist only as IR payloads on their way to a Block.
type PlanarBlock[T any] [Channels][BlockSize]T

// CopyFrom overwrites b with src's contents.
func (b *PlanarBlock[T]) CopyFrom(src *PlanarBlock[T]) { *b = *src }

// Block is the f32 planar block that flows between graph nodes.
type Block = PlanarBlock[float32]

// InterleavedBlock is the row-major CHANNELS*N layout the OS audio
// backend expects on its output buffer.
type InterleavedBlock[T any] [Channels * BlockSize]T

// Info advances monotonically once per block, giving nodes a stable
// absolute timebase independent of how often they're rendered.
type Info struct {
	AbsoluteSampleIndex uint64
	SampleRate          uint32
}

func (i Info) Advanced() Info {
	return Info{AbsoluteSampleIndex: i.AbsoluteSampleIndex + BlockSize, SampleRate: i.SampleRate}
}

// Silence zeroes every sample, regardless of prior content.
func Silence(b *Block) { simdSilence(b) }

// Add accumulates src into dst in place: dst += src.
func Add(dst, src *Block) { simdAdd(dst, src) }

// ScaleAdd accumulates gain*src into dst in place: dst += gain*src. This
// is the primitive multiplexers use to mix children: output = Σ gain_i · child_i.
func ScaleAdd(dst, src *Block, gain float32) { simdScaleAdd(dst, src, gain) }

// SoftClip applies a saturating nonlinearity to every sample in place.
func SoftClip(b *Block) { simdSoftClip(b) }

// CopyIntoInterleavedF32 converts a planar block to interleaved f32.
func CopyIntoInterleavedF32(dst *InterleavedBlock[float32], src *Block) {
	simdCopyIntoInterleavedF32(dst, src)
}

// CopyIntoInterleavedI16 converts a planar block to interleaved, 16-bit
// signed PCM, scaling by math.MaxInt16 and clamping.
func CopyIntoInterleavedI16(dst *InterleavedBlock[int16], src *Block) {
	simdCopyIntoInterleavedI16(dst, src)
}
