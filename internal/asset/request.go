package asset

import "github.com/google/uuid"

// RequestID uniquely identifies a user request for the lifetime of its
// processing; embedded into every TaskID lowered from it for cheap
// back-lookup.
type RequestID uuid.UUID

func newRequestID() RequestID { return RequestID(uuid.New()) }

func (r RequestID) String() string { return uuid.UUID(r).String() }

// QueryKind selects which field of Query is populated.
type QueryKind int

const (
	QueryByID QueryKind = iota
	QueryByTag
	QueryByTags
	QueryByType
	QueryAll
)

// Query selects a set of asset ids against the registry.
type Query struct {
	Kind QueryKind
	ID   ID
	Tag  string
	Tags []string
	Type Type
}

func ByID(id ID) Query            { return Query{Kind: QueryByID, ID: id} }
func ByTag(tag string) Query      { return Query{Kind: QueryByTag, Tag: tag} }
func ByTags(tags []string) Query  { return Query{Kind: QueryByTags, Tags: tags} }
func ByType(t Type) Query         { return Query{Kind: QueryByType, Type: t} }
func All() Query                  { return Query{Kind: QueryAll} }

func (q Query) resolve(r *Registry) []ID {
	switch q.Kind {
	case QueryByID:
		return []ID{q.ID}
	case QueryByTag:
		return r.ByTag(q.Tag)
	case QueryByTags:
		return r.ByTags(q.Tags)
	case QueryByType:
		return r.ByType(q.Type)
	case QueryAll:
		return r.Keys()
	default:
		return nil
	}
}

// RequestKind is the user intent carried by a Request.
type RequestKind int

const (
	RequestEnumerate RequestKind = iota
	RequestRead
	RequestReadNoDeps
	RequestLoad
	RequestLoadNoDeps
	RequestFree
	RequestFreeNoDeps
)

// Request is a single user asset intent.
type Request struct {
	Kind  RequestKind
	Query Query
}

func Enumerate() Request                 { return Request{Kind: RequestEnumerate} }
func Read(q Query) Request                { return Request{Kind: RequestRead, Query: q} }
func ReadNoDeps(q Query) Request          { return Request{Kind: RequestReadNoDeps, Query: q} }
func Load(q Query) Request                { return Request{Kind: RequestLoad, Query: q} }
func LoadNoDeps(q Query) Request          { return Request{Kind: RequestLoadNoDeps, Query: q} }
func Free(q Query) Request                { return Request{Kind: RequestFree, Query: q} }
func FreeNoDeps(q Query) Request          { return Request{Kind: RequestFreeNoDeps, Query: q} }
