package asset

import "testing"

func TestRegistryEnumerateThenTransitions(t *testing.T) {
	r := NewRegistry()
	if err := r.Enumerate([]Header{{ID: "a", Type: TypeTexture}}); err != nil {
		t.Fatalf("enumerate: %v", err)
	}

	st, err := r.GetState("a")
	if err != nil || st.Kind != StateEmpty {
		t.Fatalf("expected Empty state, got %+v err=%v", st, err)
	}

	if err := r.Update("a", ReadState(nil)); err != nil {
		t.Fatalf("empty->read: %v", err)
	}
	if err := r.Update("a", LoadedState(NewAsset(TypeTexture, 1), MemoryUsage{})); err != nil {
		t.Fatalf("read->loaded: %v", err)
	}
	if err := r.Update("a", EmptyState()); err != nil {
		t.Fatalf("loaded->empty: %v", err)
	}

	// Skipping states is illegal.
	if err := r.Update("a", LoadedState(NewAsset(TypeTexture, 1), MemoryUsage{})); err == nil {
		t.Fatalf("expected empty->loaded to be rejected")
	}
}

func TestRegistryEnumerateWhileInUseRejected(t *testing.T) {
	r := NewRegistry()
	_ = r.Enumerate([]Header{{ID: "a", Type: TypeTexture}})
	_ = r.Update("a", ReadState(nil))
	_ = r.Update("a", LoadedState(NewAsset(TypeTexture, 1), MemoryUsage{}))

	err := r.Enumerate([]Header{{ID: "a", Type: TypeTexture}})
	if err == nil {
		t.Fatalf("expected enumerate to fail while asset is loaded")
	}
	var aerr *Error
	if !asError(err, &aerr) || aerr.Kind != KindEnumerateWhileInUse {
		t.Fatalf("expected EnumerateWhileInUse, got %v", err)
	}
}

func TestRegistryQueries(t *testing.T) {
	r := NewRegistry()
	_ = r.Enumerate([]Header{
		{ID: "a", Type: TypeTexture, Tags: []string{"ui", "icon"}},
		{ID: "b", Type: TypeMesh, Tags: []string{"ui"}},
		{ID: "c", Type: TypeTexture, Tags: []string{"world"}},
	})

	if got := r.ByType(TypeTexture); len(got) != 2 {
		t.Fatalf("expected 2 textures, got %v", got)
	}
	if got := r.ByTag("ui"); len(got) != 2 {
		t.Fatalf("expected 2 ui-tagged, got %v", got)
	}
	if got := r.ByTags([]string{"ui", "icon"}); len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected only a, got %v", got)
	}
}

func asError(err error, target **Error) bool {
	if e, ok := err.(*Error); ok {
		*target = e
		return true
	}
	return false
}
