package render

import "testing"

func TestTripleBufferReadReturnsLatestWrite(t *testing.T) {
	tb := NewTripleBuffer(DataStreamFrame{Epoch: 0})
	tb.Write(DataStreamFrame{Epoch: 1})
	tb.Write(DataStreamFrame{Epoch: 2})

	got := tb.Read()
	if got.Epoch != 2 {
		t.Fatalf("Read() epoch = %d, want 2", got.Epoch)
	}
}

func TestTripleBufferReadWithoutNewWriteRepeats(t *testing.T) {
	tb := NewTripleBuffer(DataStreamFrame{Epoch: 5})
	first := tb.Read()
	second := tb.Read()
	if first.Epoch != 5 || second.Epoch != 5 {
		t.Fatalf("Read()/Read() = %d, %d, want 5, 5", first.Epoch, second.Epoch)
	}
}

func TestTripleBufferNeverReturnsPartiallyWrittenSlot(t *testing.T) {
	tb := NewTripleBuffer(DataStreamFrame{Epoch: 0})
	for epoch := uint64(1); epoch <= 100; epoch++ {
		tb.Write(DataStreamFrame{Epoch: epoch, Renderables: make([]Renderable, epoch)})
		got := tb.Read()
		if uint64(len(got.Renderables)) != got.Epoch {
			t.Fatalf("torn read: epoch %d but %d renderables", got.Epoch, len(got.Renderables))
		}
	}
}

// TestNextExpectedEpochCoversScenarioS5 reproduces the renderer epoch
// skip scenario exactly: epoch 1 observed as expected, then a skip from
// 2 to 3 is detected and the expected epoch snaps forward.
func TestNextExpectedEpochCoversScenarioS5(t *testing.T) {
	expected := uint64(0)

	expected = nextExpectedEpoch(expected, 0) // initial unwritten frame
	if expected != 1 {
		t.Fatalf("after initial frame, expected = %d, want 1", expected)
	}

	expected = nextExpectedEpoch(expected, 1)
	if expected != 2 {
		t.Fatalf("after epoch 1, expected = %d, want 2", expected)
	}

	// Logic thread writes 2 then 3 before the next read: renderer only
	// observes 3.
	expected = nextExpectedEpoch(expected, 3)
	if expected != 4 {
		t.Fatalf("after skip to 3, expected = %d, want 4", expected)
	}
}

func TestRenderEpochSequenceIsNonDecreasing(t *testing.T) {
	tb := NewTripleBuffer(DataStreamFrame{Epoch: 0})
	expected := uint64(0)
	var lastObserved uint64

	writes := []uint64{1, 2, 5, 5, 6}
	for _, e := range writes {
		tb.Write(DataStreamFrame{Epoch: e})
		frame := tb.Read()
		if frame.Epoch < lastObserved {
			t.Fatalf("epoch sequence decreased: %d after %d", frame.Epoch, lastObserved)
		}
		lastObserved = frame.Epoch
		expected = nextExpectedEpoch(expected, frame.Epoch)
	}
	_ = expected
}
