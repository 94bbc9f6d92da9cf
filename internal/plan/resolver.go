package plan

import (
	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// storeResolver adapts a graphstore.Store to expr.Resolver: a missing
// entity or a property never set on it both evaluate to NULL (§4.2's
// graph_get_node/graph_get_edge "no such key" rule), never an error.
type storeResolver struct {
	store *graphstore.Store
}

func (r storeResolver) NodeProperty(id uint64, key schema.PropKeyID) value.Value {
	n, ok := r.store.GetNode(id)
	if !ok {
		return value.NewNull()
	}
	v, ok := n.Props[key]
	if !ok {
		return value.NewNull()
	}
	return v
}

func (r storeResolver) EdgeProperty(id uint64, key schema.PropKeyID) value.Value {
	e, ok := r.store.GetEdge(id)
	if !ok {
		return value.NewNull()
	}
	v, ok := e.Props[key]
	if !ok {
		return value.NewNull()
	}
	return v
}
