package audio

import "testing"

func TestRingQueueRoundsCapacityToPowerOfTwo(t *testing.T) {
	q := NewRingQueue[int](5)
	if len(q.buf) != 8 {
		t.Fatalf("capacity = %d, want 8", len(q.buf))
	}
}

func TestRingQueueFIFOOrder(t *testing.T) {
	q := NewRingQueue[int](4)
	for i := 0; i < 4; i++ {
		if !q.Push(i) {
			t.Fatalf("push %d failed unexpectedly", i)
		}
	}
	for i := 0; i < 4; i++ {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("pop %d = (%v, %v), want (%d, true)", i, v, ok, i)
		}
	}
}

// TestRingQueueFullPushFailsWithoutBlocking covers the back-pressure
// contract: a full queue returns false from Push, never panics or
// blocks the caller.
func TestRingQueueFullPushFailsWithoutBlocking(t *testing.T) {
	q := NewRingQueue[int](4)
	for i := 0; i < 4; i++ {
		q.Push(i)
	}
	if q.Push(99) {
		t.Fatal("push on full queue succeeded, want false")
	}
	if q.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", q.Len())
	}
}

func TestRingQueuePopEmptyReturnsFalse(t *testing.T) {
	q := NewRingQueue[int](4)
	if _, ok := q.Pop(); ok {
		t.Fatal("pop on empty queue succeeded, want false")
	}
}

func TestRingQueueWrapsAroundAfterDrain(t *testing.T) {
	q := NewRingQueue[int](4)
	for i := 0; i < 4; i++ {
		q.Push(i)
	}
	for i := 0; i < 4; i++ {
		q.Pop()
	}
	for i := 10; i < 14; i++ {
		if !q.Push(i) {
			t.Fatalf("push %d failed after drain", i)
		}
	}
	for i := 10; i < 14; i++ {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("pop after wraparound = (%v, %v), want (%d, true)", v, ok, i)
		}
	}
}
