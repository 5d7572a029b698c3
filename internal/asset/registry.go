package asset

import "fmt"

// Registry is the in-memory map of asset id to (header, state). It is
// single-owner: mutated only by the hub's tick, never concurrently.
type Registry struct {
	headers map[ID]Header
	states  map[ID]State
	order   []ID // insertion order, for stable iteration
}

func NewRegistry() *Registry {
	return &Registry{
		headers: make(map[ID]Header),
		states:  make(map[ID]State),
	}
}

// Enumerate bulk-inserts headers. Fails if any currently Loaded entry
// would be clobbered by the incoming set.
func (r *Registry) Enumerate(headers []Header) error {
	for _, h := range headers {
		if existing, ok := r.states[h.ID]; ok && existing.Kind == StateLoaded {
			return newErr("enumerate", KindEnumerateWhileInUse,
				fmt.Sprintf("asset %s is loaded", h.ID))
		}
	}
	for _, h := range headers {
		if _, ok := r.headers[h.ID]; !ok {
			r.order = append(r.order, h.ID)
			r.states[h.ID] = EmptyState()
		}
		r.headers[h.ID] = h
	}
	return nil
}

func (r *Registry) GetHeader(id ID) (Header, error) {
	h, ok := r.headers[id]
	if !ok {
		return Header{}, newErr("get_header", KindNotFound, string(id))
	}
	return h, nil
}

func (r *Registry) GetState(id ID) (State, error) {
	s, ok := r.states[id]
	if !ok {
		return State{}, newErr("get_state", KindNotFound, string(id))
	}
	return s, nil
}

// legalTransition enforces Empty -> Read -> Loaded -> Empty, no skipping
// backward except via a successful Free (Loaded -> Empty).
func legalTransition(from, to StateKind) bool {
	switch from {
	case StateEmpty:
		return to == StateRead
	case StateRead:
		return to == StateLoaded
	case StateLoaded:
		return to == StateEmpty
	default:
		return false
	}
}

// Update validates and applies a state transition.
func (r *Registry) Update(id ID, next State) error {
	cur, ok := r.states[id]
	if !ok {
		return newErr("update", KindNotFound, string(id))
	}
	if !legalTransition(cur.Kind, next.Kind) {
		return newErr("update", KindInvalidTransition,
			fmt.Sprintf("asset %s: %d -> %d", id, cur.Kind, next.Kind))
	}
	r.states[id] = next
	return nil
}

// Keys returns all known asset ids in enumeration order.
func (r *Registry) Keys() []ID {
	out := make([]ID, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) ByTag(tag string) []ID {
	var out []ID
	for _, id := range r.order {
		if r.headers[id].HasTag(tag) {
			out = append(out, id)
		}
	}
	return out
}

func (r *Registry) ByTags(tags []string) []ID {
	var out []ID
	for _, id := range r.order {
		h := r.headers[id]
		all := true
		for _, tag := range tags {
			if !h.HasTag(tag) {
				all = false
				break
			}
		}
		if all {
			out = append(out, id)
		}
	}
	return out
}

func (r *Registry) ByType(t Type) []ID {
	var out []ID
	for _, id := range r.order {
		if r.headers[id].Type == t {
			out = append(out, id)
		}
	}
	return out
}
