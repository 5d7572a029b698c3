package asset

// ToReaderMessage is a request the hub sends to the single reader
// worker: enumerate all headers in the container, or read one asset's IR.
type ToReaderMessage struct {
	Enumerate bool
	TaskID    TaskID
	Asset     ID
}

// FromReaderMessage is the reader's reply, correlated back by TaskID.
type FromReaderMessage struct {
	Enumerate bool
	TaskID    TaskID
	Asset     ID
	Headers   []Header
	IR        IR
	Err       error
}

// ReaderBinding is the bidirectional channel pair between the hub and
// the reader worker. One instance per hub.
type ReaderBinding struct {
	ToReader   <-chan ToReaderMessage
	FromReader chan<- FromReaderMessage
}

func newReaderBinding() (*ReaderBinding, chan ToReaderMessage, chan FromReaderMessage) {
	toReader := make(chan ToReaderMessage, 64)
	fromReader := make(chan FromReaderMessage, 64)
	return &ReaderBinding{ToReader: toReader, FromReader: fromReader}, toReader, fromReader
}

// LoadFactoryMessage carries everything a factory needs to materialize
// an asset: its header, the IR the reader produced, and a live handle
// to each declared dependency (so dependency liveness holds for the
// duration of the load).
type LoadFactoryMessage struct {
	Header       Header
	IR           IR
	Dependencies map[ID]Asset
}

// LoadResult is what a factory reports back on a successful Load.
type LoadResult struct {
	Type  Type
	Ptr   interface{}
	Usage MemoryUsage
}

// ToFactoryMessage is a request the hub sends to one AssetType's factory
// worker: materialize an asset from its IR, or release a loaded one.
type ToFactoryMessage struct {
	Load   bool
	TaskID TaskID
	Asset  ID
	LoadMsg LoadFactoryMessage
}

// FromFactoryMessage is a factory's reply, correlated back by TaskID.
type FromFactoryMessage struct {
	Load   bool
	TaskID TaskID
	Asset  ID
	Result LoadResult
	Err    error
}

// FactoryBinding is the bidirectional channel pair between the hub and
// one AssetType's factory worker. Multiple instances per hub, keyed by
// AssetType; different factories run in parallel.
type FactoryBinding struct {
	Type        Type
	ToFactory   <-chan ToFactoryMessage
	FromFactory chan<- FromFactoryMessage
}

func newFactoryBinding(t Type) (*FactoryBinding, chan ToFactoryMessage, chan FromFactoryMessage) {
	toFactory := make(chan ToFactoryMessage, 64)
	fromFactory := make(chan FromFactoryMessage, 64)
	return &FactoryBinding{Type: t, ToFactory: toFactory, FromFactory: fromFactory}, toFactory, fromFactory
}
