package plan

import (
	"github.com/ritamzico/graphcypher/internal/cypher"
	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// hasLabelExpr checks whether the node bound to slot carries label —
// label membership a node.Labels comparison the record/value layer has no
// accessor for, so this closes directly over the store rather than going
// through expr.Resolver (§4.7's NodeByLabelScan only drives the entry
// scan off one label; every additional :Label in a pattern, or any label
// check against a node bound earlier in the pattern, needs this).
func (c *Compiler) hasLabelExpr(slot int, label schema.LabelID) *expr.Expr {
	store := c.store
	return expr.NewScalarOp("hasLabel", func(args []value.Value) (value.Value, error) {
		n, ok := store.GetNode(args[0].RefID())
		if !ok {
			return value.NewBool(false), nil
		}
		for _, l := range n.Labels {
			if l == label {
				return value.NewBool(true), nil
			}
		}
		return value.NewBool(false), nil
	}, expr.NewVariadic(slot, false, 0, ""))
}

// labelFilter conjoins a hasLabel check for every name in names, skipping
// skip of them (the entry scan already guarantees that one). A label name
// the schema has never interned can never match any live node, so it
// compiles to a constant false rather than a lookup.
func (c *Compiler) labelFilter(slot int, names []string, skip string) *expr.Expr {
	var out *expr.Expr
	for _, name := range names {
		if name == skip {
			continue
		}
		var term *expr.Expr
		if id, ok := c.schema.LookupLabel(name); ok {
			term = c.hasLabelExpr(slot, id)
		} else {
			term = expr.NewConst(value.NewBool(false))
		}
		out = and2(out, term)
	}
	return out
}

// propertyFilter conjoins slot.key = value for each inline {key: expr}
// pair of a node/edge pattern (§4.6's property-map predicate).
func (c *Compiler) propertyFilter(sc *scope, slot int, pairs []*cypher.MapPair) (*expr.Expr, error) {
	var out *expr.Expr
	for _, pair := range pairs {
		key, ok := c.schema.LookupProp(pair.Key)
		var left *expr.Expr
		if ok {
			left = expr.NewVariadic(slot, true, key, pair.Key)
		} else {
			left = expr.NewConst(value.NewNull())
		}
		right, err := c.compileExpr(sc, pair.Value)
		if err != nil {
			return nil, err
		}
		term := expr.NewScalarOp("=", comparisonOp("="), left, right)
		out = and2(out, term)
	}
	return out, nil
}

// and2 conjoins a and b, tolerating either side being nil (no predicate
// yet accumulated).
func and2(a, b *expr.Expr) *expr.Expr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return expr.NewScalarOp("and", andOp, a, b)
}

// compilePropMap compiles a CREATE-style property map into the
// map[PropKeyID]*expr.Expr shape ops.Create/ops.Merge need, interning
// every key (CREATE is allowed to introduce new property names, unlike a
// MATCH-side property filter).
func (c *Compiler) compilePropMap(sc *scope, m *cypher.MapLiteral) (map[schema.PropKeyID]*expr.Expr, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[schema.PropKeyID]*expr.Expr, len(m.Pairs))
	for _, pair := range m.Pairs {
		key := c.schema.InternProp(pair.Key)
		v, err := c.compileExpr(sc, pair.Value)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}
