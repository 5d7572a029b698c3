// Package asset implements the asynchronous, reference-counted asset
// pipeline: a registry of headers/state, a request scheduler that lowers
// requests into dependency-ordered task DAGs, and a hub that fans tasks
// out to reader/factory workers and reconciles completions.
package asset

import "sync/atomic"

// ID is the opaque stable identifier for an asset.
type ID string

// Type is a tag from a closed set of asset kinds.
type Type int

const (
	TypeTexture Type = iota
	TypeMesh
	TypeMaterial
	TypeShader
	TypeAudioWAV
	TypeAudioOGG
	TypeAudioFLAC
	TypeAudioMIDI
)

func (t Type) String() string {
	switch t {
	case TypeTexture:
		return "texture"
	case TypeMesh:
		return "mesh"
	case TypeMaterial:
		return "material"
	case TypeShader:
		return "shader"
	case TypeAudioWAV:
		return "audio-wav"
	case TypeAudioOGG:
		return "audio-ogg"
	case TypeAudioFLAC:
		return "audio-flac"
	case TypeAudioMIDI:
		return "audio-midi"
	default:
		return "unknown"
	}
}

// Header describes an asset without materializing it: its type, the
// other assets it depends on, and free-form tags used by queries.
type Header struct {
	ID           ID
	Type         Type
	Dependencies []ID
	Tags         []string
}

func (h Header) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IR is the deserialized-but-not-yet-materialized form of an asset:
// pixels, vertex arrays, PCM frames, a parsed event stream. Produced by
// the reader, consumed by the factory that turns it into a live Asset.
type IR interface {
	MemoryUsage() int
}

// MemoryUsage describes the resident footprint of a loaded Asset.
type MemoryUsage struct {
	CPUBytes int
	GPUBytes int
}

// Asset is a shared, reference-counted handle over an opaque loaded
// object. The only way user code reaches live asset data. Copies share
// the same underlying refcount; call Release when done with a handle
// obtained from Hub.Get.
type Asset struct {
	assetType Type
	ptr       interface{}
	rc        *int64
}

// NewAsset wraps a factory-produced opaque pointer in a fresh handle
// with refcount 1 (the hub's own reference).
func NewAsset(assetType Type, ptr interface{}) Asset {
	rc := int64(1)
	return Asset{assetType: assetType, ptr: ptr, rc: &rc}
}

func (a Asset) Type() Type          { return a.assetType }
func (a Asset) Ptr() interface{}    { return a.ptr }
func (a Asset) RefCount() int64     { return atomic.LoadInt64(a.rc) }

// Retain returns a new handle to the same asset with the refcount
// incremented. Call this from Hub.Get, never copy an Asset directly.
func (a Asset) Retain() Asset {
	atomic.AddInt64(a.rc, 1)
	return a
}

// Release decrements the refcount. The hub's own reference is released
// only when the asset transitions back to Empty.
func (a Asset) Release() {
	atomic.AddInt64(a.rc, -1)
}

// StateKind distinguishes the three phases of an asset's lifecycle.
type StateKind int

const (
	StateEmpty StateKind = iota
	StateRead
	StateLoaded
)

// State is the per-id lifecycle state: Empty (header known, nothing
// materialized), Read (IR resident), or Loaded (Asset live).
type State struct {
	Kind  StateKind
	IR    IR
	Asset Asset
	Usage MemoryUsage
}

func EmptyState() State { return State{Kind: StateEmpty} }

func ReadState(ir IR) State { return State{Kind: StateRead, IR: ir} }

func LoadedState(a Asset, usage MemoryUsage) State {
	return State{Kind: StateLoaded, Asset: a, Usage: usage}
}
