package audio

import "testing"

func fillRamp(b *Block) {
	for c := 0; c < Channels; c++ {
		for i := range b[c] {
			b[c][i] = float32(i) * 0.01
		}
	}
}

func TestSilenceZeroesRegardlessOfPriorState(t *testing.T) {
	var b Block
	fillRamp(&b)
	Silence(&b)
	for c := 0; c < Channels; c++ {
		for i, v := range b[c] {
			if v != 0 {
				t.Fatalf("sample [%d][%d] = %v, want 0", c, i, v)
			}
		}
	}
}

func TestCopyIntoInterleavedF32RoundTrips(t *testing.T) {
	var planar Block
	fillRamp(&planar)

	var interleaved InterleavedBlock[float32]
	CopyIntoInterleavedF32(&interleaved, &planar)

	var back Block
	for i := 0; i < BlockSize; i++ {
		for c := 0; c < Channels; c++ {
			back[c][i] = interleaved[i*Channels+c]
		}
	}

	if back != planar {
		t.Fatalf("de-interleave did not reproduce the original planar block")
	}
}

// TestSIMDTiersAgreeWithFallback exercises property #5: every dispatch
// tier must produce results identical to the fallback loop on exactly
// BlockSize x Channels input.
func TestSIMDTiersAgreeWithFallback(t *testing.T) {
	tiers := []tier{tierFallback, tierSSE42, tierAVX, tierAVX2, tierAVX512, tierNEON, tierSVE}

	var want Block
	{
		var dst, src Block
		fillRamp(&dst)
		fillRamp(&src)
		addScalar(&dst, &src)
		want = dst
	}

	for _, tr := range tiers {
		resetFeaturesForTest(tr)
		var dst, src Block
		fillRamp(&dst)
		fillRamp(&src)
		Add(&dst, &src)
		if dst != want {
			t.Fatalf("tier %v: Add disagreed with fallback", tr)
		}
	}

	var wantScale Block
	{
		var dst, src Block
		fillRamp(&dst)
		fillRamp(&src)
		scaleAddScalar(&dst, &src, 0.37)
		wantScale = dst
	}
	for _, tr := range tiers {
		resetFeaturesForTest(tr)
		var dst, src Block
		fillRamp(&dst)
		fillRamp(&src)
		ScaleAdd(&dst, &src, 0.37)
		if dst != wantScale {
			t.Fatalf("tier %v: ScaleAdd disagreed with fallback", tr)
		}
	}

	resetFeaturesForTest(tierFallback)
}
