package asset

import "fmt"

type readerStorage struct {
	send chan<- ToReaderMessage
	recv <-chan FromReaderMessage
}

type factoryStorage struct {
	send chan<- ToFactoryMessage
	recv <-chan FromFactoryMessage
}

// GetError reports why Hub.Get could not return a live asset.
type GetError struct {
	asset ID
	kind  Kind
}

func (e *GetError) Error() string {
	if e.kind == KindNotLoaded {
		return fmt.Sprintf("asset %s is not loaded", e.asset)
	}
	return fmt.Sprintf("asset %s not found", e.asset)
}

// Hub is the single-threaded orchestrator tying together the registry,
// the scheduler, and the reader/factory workers. Every public method
// except the constructors and bindings is meant to be called from one
// goroutine (the host's tick thread).
type Hub struct {
	reader    *readerStorage
	factories map[Type]*factoryStorage
	registry  *Registry
	scheduler *Scheduler
	events    []Event
}

func NewHub() *Hub {
	return &Hub{
		factories: make(map[Type]*factoryStorage),
		registry:  NewRegistry(),
		scheduler: NewScheduler(),
	}
}

// FactoryBinding registers and returns the channel pair for the given
// asset type's factory worker. Panics on double registration: this is
// a programmer contract violation, not a runtime condition.
func (h *Hub) FactoryBinding(t Type) *FactoryBinding {
	if _, ok := h.factories[t]; ok {
		panic(fmt.Sprintf("asset: factory for type %v already registered", t))
	}
	binding, toFactory, fromFactory := newFactoryBinding(t)
	h.factories[t] = &factoryStorage{send: toFactory, recv: fromFactory}
	return binding
}

// ReaderBinding registers and returns the channel pair for the single
// reader worker. Panics on double registration.
func (h *Hub) ReaderBinding() *ReaderBinding {
	if h.reader != nil {
		panic("asset: reader binding already registered")
	}
	binding, toReader, fromReader := newReaderBinding()
	h.reader = &readerStorage{send: toReader, recv: fromReader}
	return binding
}

// Request lazily enqueues a user intent. Requests are guaranteed to
// execute in the order they were requested; validation and execution
// are deferred until Tick.
func (h *Hub) Request(req Request) RequestID {
	return h.scheduler.Request(req)
}

// Get retrieves a live asset handle, incrementing its refcount.
func (h *Hub) Get(id ID) (Asset, error) {
	st, err := h.registry.GetState(id)
	if err != nil {
		return Asset{}, &GetError{asset: id, kind: KindNotFound}
	}
	if st.Kind != StateLoaded {
		return Asset{}, &GetError{asset: id, kind: KindNotLoaded}
	}
	return st.Asset.Retain(), nil
}

// InfoState summarizes one asset's current lifecycle phase for
// diagnostics (debug overlays, tooling).
type InfoState struct {
	Kind     StateKind
	IRBytes  int
	Usage    MemoryUsage
	RefCount int64
}

type Info struct {
	ID     ID
	Header Header
	State  InfoState
}

// Infos collects debug information about every enumerated asset.
func (h *Hub) Infos() []Info {
	out := make([]Info, 0, len(h.registry.order))
	for _, id := range h.registry.Keys() {
		header, _ := h.registry.GetHeader(id)
		st, _ := h.registry.GetState(id)
		info := Info{ID: id, Header: header}
		switch st.Kind {
		case StateEmpty:
			info.State = InfoState{Kind: StateEmpty}
		case StateRead:
			info.State = InfoState{Kind: StateRead, IRBytes: st.IR.MemoryUsage()}
		case StateLoaded:
			info.State = InfoState{Kind: StateLoaded, Usage: st.Usage, RefCount: st.Asset.RefCount()}
		}
		out = append(out, info)
	}
	return out
}

// Events drains and returns the notifications accumulated since the
// previous Events call (across any number of Tick calls), in emission
// order.
func (h *Hub) Events() []Event {
	out := h.events
	h.events = nil
	return out
}

func (h *Hub) emit(e Event) {
	h.events = append(h.events, e)
}

// Tick drains the scheduler, routes runnable tasks to the reader or the
// appropriate factory, then drains every reply channel and applies the
// resulting registry transitions. Call once per host loop iteration.
func (h *Hub) Tick() {
	for {
		result := h.scheduler.Peek(h.registry)
		if task, ok := result.IsPeeked(); ok {
			var err error
			switch task.Command.Kind {
			case CmdEnumerate:
				err = h.sendEnumerate(task.ID)
			case CmdRead:
				err = h.sendRead(task.ID, task.Command.ID)
			case CmdLoad:
				err = h.sendLoad(task.ID, task.Command.ID)
			case CmdFree:
				err = h.sendFree(task.ID, task.Command.ID)
			}
			if err != nil {
				h.taskFinished(task.ID, err)
			}
			continue
		}
		if tid, ok := result.IsEmptyUnwrap(); ok {
			h.taskFinished(tid, nil)
			continue
		}
		if tid, err, ok := result.IsUnwrapFailed(); ok {
			h.taskFinished(tid, err)
			continue
		}
		break // NoPendingTasks
	}

	if h.reader != nil {
	readerLoop:
		for {
			select {
			case msg := <-h.reader.recv:
				h.recvReader(msg)
			default:
				break readerLoop
			}
		}
	}

	for _, factory := range h.factories {
	factoryLoop:
		for {
			select {
			case msg := <-factory.recv:
				h.recvFactory(msg)
			default:
				break factoryLoop
			}
		}
	}
}

func (h *Hub) taskFinished(tid TaskID, err error) {
	result := h.scheduler.TaskFinished(tid, err)
	if result.RequestFinished {
		h.emit(Event{Kind: EventRequestFinished, Request: result.Request, Err: result.Err})
	}
}

func (h *Hub) recvReader(msg FromReaderMessage) {
	if msg.Enumerate {
		if msg.Err != nil {
			h.taskFinished(msg.TaskID, msg.Err)
			return
		}
		if err := h.registry.Enumerate(msg.Headers); err != nil {
			h.taskFinished(msg.TaskID, err)
			return
		}
		h.taskFinished(msg.TaskID, nil)
		return
	}

	if msg.Err != nil {
		h.taskFinished(msg.TaskID, msg.Err)
		return
	}
	if err := h.registry.Update(msg.Asset, ReadState(msg.IR)); err != nil {
		h.taskFinished(msg.TaskID, err)
		return
	}
	h.emit(Event{Kind: EventAssetRead, Asset: msg.Asset})
	h.taskFinished(msg.TaskID, nil)
}

func (h *Hub) recvFactory(msg FromFactoryMessage) {
	if msg.Load {
		if msg.Err != nil {
			h.taskFinished(msg.TaskID, msg.Err)
			return
		}
		asset := NewAsset(msg.Result.Type, msg.Result.Ptr)
		if err := h.registry.Update(msg.Asset, LoadedState(asset, msg.Result.Usage)); err != nil {
			h.taskFinished(msg.TaskID, err)
			return
		}
		h.emit(Event{Kind: EventAssetLoaded, Asset: msg.Asset})
		h.taskFinished(msg.TaskID, nil)
		return
	}

	if msg.Err != nil {
		h.taskFinished(msg.TaskID, msg.Err)
		return
	}
	prev, _ := h.registry.GetState(msg.Asset)
	if err := h.registry.Update(msg.Asset, EmptyState()); err != nil {
		h.taskFinished(msg.TaskID, err)
		return
	}
	prev.Asset.Release() // the hub's own reference
	h.emit(Event{Kind: EventAssetFreed, Asset: msg.Asset})
	h.taskFinished(msg.TaskID, nil)
}

func (h *Hub) sendEnumerate(tid TaskID) error {
	if h.reader == nil {
		return newErr("enumerate", KindReaderNotRegistered, "no reader bound")
	}
	for _, id := range h.registry.Keys() {
		st, err := h.registry.GetState(id)
		if err != nil {
			return err
		}
		if st.Kind == StateLoaded {
			return newErr("enumerate", KindEnumerateWhileInUse, string(id))
		}
	}
	h.reader.send <- ToReaderMessage{Enumerate: true, TaskID: tid}
	return nil
}

func (h *Hub) sendRead(tid TaskID, id ID) error {
	if h.reader == nil {
		return newErr("read", KindReaderNotRegistered, "no reader bound")
	}
	h.reader.send <- ToReaderMessage{TaskID: tid, Asset: id}
	return nil
}

func (h *Hub) sendLoad(tid TaskID, id ID) error {
	header, err := h.registry.GetHeader(id)
	if err != nil {
		return err
	}
	st, err := h.registry.GetState(id)
	if err != nil {
		return err
	}
	if st.Kind != StateRead {
		return newErr("load", KindInvalidAssetState, string(id))
	}
	factory, ok := h.factories[header.Type]
	if !ok {
		return newErr("load", KindFactoryNotFound, header.Type.String())
	}

	deps := make(map[ID]Asset, len(header.Dependencies))
	for _, dep := range header.Dependencies {
		depState, err := h.registry.GetState(dep)
		if err != nil || depState.Kind != StateLoaded {
			return newErr("load", KindInvalidAssetState, string(dep))
		}
		deps[dep] = depState.Asset
	}

	factory.send <- ToFactoryMessage{
		Load:   true,
		TaskID: tid,
		Asset:  id,
		LoadMsg: LoadFactoryMessage{
			Header:       header,
			IR:           st.IR,
			Dependencies: deps,
		},
	}
	return nil
}

func (h *Hub) sendFree(tid TaskID, id ID) error {
	header, err := h.registry.GetHeader(id)
	if err != nil {
		return err
	}
	st, err := h.registry.GetState(id)
	if err != nil {
		return err
	}
	if st.Kind != StateLoaded {
		return newErr("free", KindInvalidAssetState, string(id))
	}
	if st.Asset.RefCount() > 1 {
		return newErr("free", KindAssetInUse, fmt.Sprintf("%s rc=%d", id, st.Asset.RefCount()))
	}
	factory, ok := h.factories[header.Type]
	if !ok {
		return newErr("free", KindFactoryNotFound, header.Type.String())
	}
	factory.send <- ToFactoryMessage{TaskID: tid, Asset: id}
	return nil
}
