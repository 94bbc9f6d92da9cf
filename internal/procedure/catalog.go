package procedure

import (
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// registerCatalog wires the handful of schema-introspection procedures a
// Cypher-like engine conventionally ships — db.labels, db.relationshipTypes,
// db.propertyKeys, db.indexes — each a thin read over internal/schema.
func registerCatalog(r *Registry) {
	r.register(&Procedure{
		Name:    "db.labels",
		Outputs: []Output{{Name: "label", Kind: value.String}},
		Call: func(sc *schema.Schema, args []value.Value) (Instance, error) {
			if len(args) != 0 {
				return nil, arityError("db.labels", 0, len(args))
			}
			return newStringStream(sc.Labels()), nil
		},
	})
	r.register(&Procedure{
		Name:    "db.relationshipTypes",
		Outputs: []Output{{Name: "relationshipType", Kind: value.String}},
		Call: func(sc *schema.Schema, args []value.Value) (Instance, error) {
			if len(args) != 0 {
				return nil, arityError("db.relationshipTypes", 0, len(args))
			}
			return newStringStream(sc.Types()), nil
		},
	})
	r.register(&Procedure{
		Name:    "db.propertyKeys",
		Outputs: []Output{{Name: "propertyKey", Kind: value.String}},
		Call: func(sc *schema.Schema, args []value.Value) (Instance, error) {
			if len(args) != 0 {
				return nil, arityError("db.propertyKeys", 0, len(args))
			}
			return newStringStream(sc.PropKeys()), nil
		},
	})
	r.register(&Procedure{
		Name:    "db.indexes",
		Outputs: []Output{{Name: "label", Kind: value.String}, {Name: "property", Kind: value.String}},
		Call: func(sc *schema.Schema, args []value.Value) (Instance, error) {
			if len(args) != 0 {
				return nil, arityError("db.indexes", 0, len(args))
			}
			return newIndexStream(sc.Indexes()), nil
		},
	})
}
