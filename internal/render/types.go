package render

import (
	"time"

	"github.com/intuitionamiga/yage2/internal/asset"
	"github.com/intuitionamiga/yage2/internal/profiling"
)

// Renderable is one scene item handed to the render pipeline: a model
// matrix plus the mesh/material it references by asset id, and any
// per-instance uniform data a pass wants to read.
type Renderable struct {
	ModelMatrix [16]float32
	Mesh        asset.ID
	Material    asset.ID
	Uniforms    map[string]any
}

// DataStreamFrame is one producer-written snapshot of the scene,
// carrying the epoch the renderer checks for skip detection.
type DataStreamFrame struct {
	Epoch       uint64
	Renderables []Renderable
}

// ChainTimers holds per-pass CPU and GPU timing samples for one frame.
// GPU timers are only meaningful when the backend reports timestamp
// support; GPUSupported gates whether GPU is populated.
type ChainTimers struct {
	Names        []string
	CPU          []profiling.Sample[time.Duration]
	GPU          []profiling.Sample[time.Duration]
	GPUSupported bool
}

// RenderPassEvent is a user-supplied event variant routed to the pass
// named Target; Payload is whatever type the host's pass chain defines.
type RenderPassEvent[E any] struct {
	Target  string
	Payload E
}

// PassResult is what one pass reports after Execute.
type PassResult struct {
	Primitives uint64
	Calls      uint64
	Failed     bool
}

// worstOf folds two PassResults, a failure in either poisoning the sum.
func (r PassResult) worstOf(other PassResult) PassResult {
	return PassResult{
		Primitives: r.Primitives + other.Primitives,
		Calls:      r.Calls + other.Calls,
		Failed:     r.Failed || other.Failed,
	}
}
