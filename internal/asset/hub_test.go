package asset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeIR struct{ bytes int }

func (f fakeIR) MemoryUsage() int { return f.bytes }

// driveReader answers every currently pending ToReaderMessage against a
// static header table, simulating the reader worker synchronously.
func driveReader(binding *ReaderBinding, headers map[ID]Header) {
	for {
		select {
		case msg := <-binding.ToReader:
			if msg.Enumerate {
				all := make([]Header, 0, len(headers))
				for _, h := range headers {
					all = append(all, h)
				}
				binding.FromReader <- FromReaderMessage{Enumerate: true, TaskID: msg.TaskID, Headers: all}
				continue
			}
			binding.FromReader <- FromReaderMessage{TaskID: msg.TaskID, Asset: msg.Asset, IR: fakeIR{bytes: 16}}
		default:
			return
		}
	}
}

// driveFactory answers every currently pending ToFactoryMessage by
// materializing a trivial opaque handle, simulating a factory worker.
func driveFactory(binding *FactoryBinding) {
	for {
		select {
		case msg := <-binding.ToFactory:
			if msg.Load {
				binding.FromFactory <- FromFactoryMessage{
					Load: true, TaskID: msg.TaskID, Asset: msg.Asset,
					Result: LoadResult{Type: binding.Type, Ptr: msg.Asset, Usage: MemoryUsage{CPUBytes: 16}},
				}
				continue
			}
			binding.FromFactory <- FromFactoryMessage{TaskID: msg.TaskID, Asset: msg.Asset}
		default:
			return
		}
	}
}

// runUntilIdle ticks the hub and drives the fake workers for a fixed 16
// rounds, then ticks once more, collecting every emitted event.
func runUntilIdle(h *Hub, reader *ReaderBinding, factory *FactoryBinding, headers map[ID]Header, events *[]Event) {
	for i := 0; i < 16; i++ {
		h.Tick()
		*events = append(*events, h.Events()...)
		driveReader(reader, headers)
		driveFactory(factory)
	}
	h.Tick()
	*events = append(*events, h.Events()...)
}

func enumerate(h *Hub, reader *ReaderBinding, headers map[ID]Header) {
	h.Request(Enumerate())
	h.Tick()            // hub sends ToReaderMessage{Enumerate}
	driveReader(reader, headers)
	h.Tick() // hub applies the registry bulk-insert, emits RequestFinished
	h.Events()
}

func requestFinished(events []Event, rid RequestID) (found bool, err error) {
	for _, e := range events {
		if e.Kind == EventRequestFinished && e.Request == rid {
			return true, e.Err
		}
	}
	return false, nil
}

func TestHubLoadWithDependencies_S1(t *testing.T) {
	h := NewHub()
	reader := h.ReaderBinding()
	factory := h.FactoryBinding(TypeTexture)

	headers := map[ID]Header{
		"A": {ID: "A", Type: TypeTexture, Dependencies: []ID{"B"}},
		"B": {ID: "B", Type: TypeTexture},
	}
	enumerate(h, reader, headers)

	rid := h.Request(Load(ByID("A")))
	var events []Event
	runUntilIdle(h, reader, factory, headers, &events)

	finished, err := requestFinished(events, rid)
	if !finished {
		t.Fatalf("expected RequestFinished for %v, got %+v", rid, events)
	}
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}

	var order []EventKind
	for _, e := range events {
		order = append(order, e.Kind)
	}
	wantSeq := []EventKind{EventAssetRead, EventAssetLoaded, EventAssetRead, EventAssetLoaded, EventRequestFinished}
	if len(order) != len(wantSeq) {
		t.Fatalf("expected events %v, got %v", wantSeq, order)
	}
	for i := range wantSeq {
		if order[i] != wantSeq[i] {
			t.Fatalf("event %d: expected %v, got %v (full: %v)", i, wantSeq[i], order[i], order)
		}
	}

	asset, err := h.Get("A")
	if err != nil {
		t.Fatalf("expected A to be loaded: %v", err)
	}
	if asset.RefCount() < 1 {
		t.Fatalf("expected positive refcount")
	}
}

func TestHubRefusesFreeWhileInUse_S2(t *testing.T) {
	h := NewHub()
	reader := h.ReaderBinding()
	factory := h.FactoryBinding(TypeTexture)
	headers := map[ID]Header{"A": {ID: "A", Type: TypeTexture}}
	enumerate(h, reader, headers)

	rid := h.Request(Load(ByID("A")))
	var events []Event
	runUntilIdle(h, reader, factory, headers, &events)
	if ok, err := requestFinished(events, rid); !ok || err != nil {
		t.Fatalf("expected load to succeed, found=%v err=%v", ok, err)
	}

	held, err := h.Get("A")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if held.RefCount() != 2 {
		t.Fatalf("expected refcount 2 after Get, got %d", held.RefCount())
	}

	rid = h.Request(Free(ByID("A")))
	events = nil
	runUntilIdle(h, reader, factory, headers, &events)

	ok, ferr := requestFinished(events, rid)
	require.True(t, ok, "expected RequestFinished for free, got %+v", events)

	var aerr *Error
	require.ErrorAs(t, ferr, &aerr, "expected the free task to fail (AssetInUse)")
	require.Equal(t, KindTaskFailed, aerr.Kind)
}

func TestHubDedupSharesLoadAcrossRequests_S3(t *testing.T) {
	h := NewHub()
	reader := h.ReaderBinding()
	factory := h.FactoryBinding(TypeTexture)
	headers := map[ID]Header{"A": {ID: "A", Type: TypeTexture}}
	enumerate(h, reader, headers)

	rid1 := h.Request(Load(ByID("A")))
	rid2 := h.Request(Load(ByID("A")))
	var events []Event
	runUntilIdle(h, reader, factory, headers, &events)

	ok1, err1 := requestFinished(events, rid1)
	ok2, err2 := requestFinished(events, rid2)
	if !ok1 || !ok2 {
		t.Fatalf("expected both requests to finish, got %+v", events)
	}
	if err1 != nil || err2 != nil {
		t.Fatalf("expected both requests to succeed, got %v %v", err1, err2)
	}

	loadCount := 0
	for _, e := range events {
		if e.Kind == EventAssetLoaded {
			loadCount++
		}
	}
	if loadCount != 1 {
		t.Fatalf("expected asset A to be loaded exactly once, got %d", loadCount)
	}
}
