package audio

import "testing"

func renderOnceInfo() Info {
	return Info{AbsoluteSampleIndex: 0, SampleRate: 48000}
}

func allSamplesEqual(t *testing.T, b *Block, want float32) {
	t.Helper()
	for c := 0; c < Channels; c++ {
		for i, v := range b[c] {
			if v != want {
				t.Fatalf("sample [%d][%d] = %v, want %v", c, i, v, want)
			}
		}
	}
}

// TestMultiplexer3SourceSumsToOne covers scenario S4: three constant
// sources mixed at {0.5, 0.2, 0.3} sum to 1.0 on every sample.
func TestMultiplexer3SourceSumsToOne(t *testing.T) {
	mux := NewMultiplexer3Source[*FuncSource](
		NewConstantSource(1.0), NewConstantSource(1.0), NewConstantSource(1.0),
		0.5, 0.2, 0.3,
	)
	mux.FrameStart()
	out := mux.Render(renderOnceInfo())
	allSamplesEqual(t, out, 1.0)
}

// TestMultiplexer3SourceCancelsToZero covers the S4 variant where the
// mix weights sum to zero: {0.5, 0.2, -0.7} on constant-1.0 children.
func TestMultiplexer3SourceCancelsToZero(t *testing.T) {
	mux := NewMultiplexer3Source[*FuncSource](
		NewConstantSource(1.0), NewConstantSource(1.0), NewConstantSource(1.0),
		0.5, 0.2, -0.7,
	)
	mux.FrameStart()
	out := mux.Render(renderOnceInfo())
	allSamplesEqual(t, out, 0.0)
}

// TestMultiplexerSourceHomogeneousMatchesHeterogeneous checks the
// slice-based MultiplexerSource against the fixed-arity variant for the
// same weights and children.
func TestMultiplexerSourceHomogeneousMatchesHeterogeneous(t *testing.T) {
	children := []*FuncSource{NewConstantSource(1.0), NewConstantSource(1.0), NewConstantSource(1.0)}
	mux := NewMultiplexerSource[*FuncSource](children, []float32{0.5, 0.2, 0.3})
	mux.FrameStart()
	out := mux.Render(renderOnceInfo())
	allSamplesEqual(t, out, 1.0)
}

func TestMultiplexerSourcePanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on children/mix length mismatch")
		}
	}()
	NewMultiplexerSource[*FuncSource]([]*FuncSource{NewConstantSource(1.0)}, []float32{0.5, 0.5})
}

// TestNodeRenderIsCachedPerFrame verifies a source's Generate callback
// only runs once until FrameStart clears the cache, regardless of how
// many times Render is called within the frame.
func TestNodeRenderIsCachedPerFrame(t *testing.T) {
	calls := 0
	src := NewFuncSource(func(_ Info, out *Block) {
		calls++
		Silence(out)
	})

	src.FrameStart()
	src.Render(renderOnceInfo())
	src.Render(renderOnceInfo())
	src.Render(renderOnceInfo())
	if calls != 1 {
		t.Fatalf("Generate called %d times in one frame, want 1", calls)
	}

	src.FrameStart()
	src.Render(renderOnceInfo())
	if calls != 2 {
		t.Fatalf("Generate called %d times after FrameStart, want 2", calls)
	}
}
