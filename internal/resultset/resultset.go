// Package resultset implements the result set of §4.9: a collector for the
// rows ProduceResults pulls, a fallback DISTINCT/ORDER BY/SKIP/LIMIT
// windowing layer for plans that didn't already apply one, and the row
// serialization rules of §6.
//
// Grounded on the teacher's internal/result package (a Result interface
// with Kind()+String(), one struct per result shape, MultiResult joining
// sub-results with a "[n] ..." line per entry) generalized from "one
// struct per query-result shape" to "one header plus a row stream", since
// every query here produces the same shape of result regardless of which
// clauses it used.
package resultset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// Resolver looks up the data a NodeRef/EdgeRef Value needs to serialize in
// full: its labels/type, its properties, and the interned names behind
// each id. *graphstore.Store satisfies this via StoreResolver.
type Resolver interface {
	ResolveNode(id uint64) (graphstore.NodeData, bool)
	ResolveEdge(id uint64) (graphstore.EdgeData, bool)
	LabelName(id schema.LabelID) string
	TypeName(id schema.TypeID) string
	PropName(id schema.PropKeyID) string
}

// StoreResolver adapts a graph store + its schema to Resolver.
type StoreResolver struct {
	Store *graphstore.Store
}

func (r StoreResolver) ResolveNode(id uint64) (graphstore.NodeData, bool) { return r.Store.GetNode(id) }
func (r StoreResolver) ResolveEdge(id uint64) (graphstore.EdgeData, bool) { return r.Store.GetEdge(id) }
func (r StoreResolver) LabelName(id schema.LabelID) string                { return r.Store.Schema.LabelName(id) }
func (r StoreResolver) TypeName(id schema.TypeID) string                  { return r.Store.Schema.TypeName(id) }
func (r StoreResolver) PropName(id schema.PropKeyID) string               { return r.Store.Schema.PropName(id) }

// Stats is the mutation/timing summary of §6's result envelope.
type Stats struct {
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
	LabelsAdded          int
	IndicesCreated       int
	IndicesDropped       int
	ExecutionTimeMs      float64
}

// ResultSet is the (header, rows, stats) envelope of §6.
type ResultSet struct {
	Header []string
	Rows   []record.Record
	Stats  Stats
}

// New creates an empty ResultSet with the given projection header.
func New(header []string) *ResultSet {
	return &ResultSet{Header: header}
}

// Add appends one pulled record to the set.
func (rs *ResultSet) Add(rec record.Record) {
	rs.Rows = append(rs.Rows, rec)
}

// Distinct removes duplicate rows, keeping each row's first occurrence —
// the fallback for plans whose Distinct operator didn't already dedupe.
func (rs *ResultSet) Distinct() {
	seen := make(map[uint64][]record.Record)
	out := rs.Rows[:0:0]
	for _, rec := range rs.Rows {
		fp := record.Fingerprint(rec)
		dup := false
		for _, s := range seen[fp] {
			if record.Equal(s, rec) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[fp] = append(seen[fp], rec)
		out = append(out, rec)
	}
	rs.Rows = out
}

// OrderBy stable-sorts rows with less, the fallback for a plan whose Sort
// operator didn't already order them. Stability matters: ties must keep
// their child-produced order per §5's ordering guarantees.
func (rs *ResultSet) OrderBy(less func(a, b record.Record) bool) {
	sort.SliceStable(rs.Rows, func(i, j int) bool { return less(rs.Rows[i], rs.Rows[j]) })
}

// SkipLimit windows rows: drops the first skip, then keeps at most limit of
// what remains. A negative limit means unbounded.
func (rs *ResultSet) SkipLimit(skip, limit int) {
	if skip < 0 {
		skip = 0
	}
	if skip > len(rs.Rows) {
		skip = len(rs.Rows)
	}
	rs.Rows = rs.Rows[skip:]
	if limit >= 0 && limit < len(rs.Rows) {
		rs.Rows = rs.Rows[:limit]
	}
}

// SerializeRow renders one row as comma-separated fields per §6.
func SerializeRow(rec record.Record, resolver Resolver) string {
	fields := make([]string, rec.Len())
	for i := 0; i < rec.Len(); i++ {
		fields[i] = FormatValue(rec.Get(i), resolver)
	}
	return strings.Join(fields, ", ")
}

// FormatValue renders v per §6's serialization rules, expanding a
// NodeRef/EdgeRef to its full "(id:..:Label {..})" / "[id:..:TYPE {..}]"
// form via resolver. A nil resolver or an entity the resolver can no
// longer find (deleted between pull and serialize) falls back to Value's
// own bare "(id:n)"/"[id:n]" rendering.
func FormatValue(v value.Value, resolver Resolver) string {
	switch v.Kind() {
	case value.NodeRef:
		if resolver == nil {
			return v.String()
		}
		n, ok := resolver.ResolveNode(v.RefID())
		if !ok {
			return v.String()
		}
		return formatNode(n, resolver)
	case value.EdgeRef:
		if resolver == nil {
			return v.String()
		}
		e, ok := resolver.ResolveEdge(v.RefID())
		if !ok {
			return v.String()
		}
		return formatEdge(e, resolver)
	default:
		return v.String()
	}
}

func formatNode(n graphstore.NodeData, resolver Resolver) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(id:%d", n.ID)
	for _, l := range n.Labels {
		fmt.Fprintf(&b, ":%s", resolver.LabelName(l))
	}
	b.WriteString(formatProps(n.Props, resolver))
	b.WriteByte(')')
	return b.String()
}

func formatEdge(e graphstore.EdgeData, resolver Resolver) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[id:%d:%s", e.ID, resolver.TypeName(e.Type))
	b.WriteString(formatProps(e.Props, resolver))
	b.WriteByte(']')
	return b.String()
}

// formatProps sorts keys by name for deterministic, testable output — the
// property store itself is an unordered map.
func formatProps(props map[schema.PropKeyID]value.Value, resolver Resolver) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]schema.PropKeyID, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return resolver.PropName(keys[i]) < resolver.PropName(keys[j]) })
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%s", resolver.PropName(k), props[k].String())
	}
	return " {" + strings.Join(parts, ", ") + "}"
}

// String renders the whole result set as a header line followed by one
// serialized row per line, mirroring the teacher's MultiResult.String
// join-with-newline idiom.
func (rs *ResultSet) String(resolver Resolver) string {
	if len(rs.Rows) == 0 {
		return "No results."
	}
	var b strings.Builder
	b.WriteString(strings.Join(rs.Header, ", "))
	for _, rec := range rs.Rows {
		b.WriteByte('\n')
		b.WriteString(SerializeRow(rec, resolver))
	}
	return b.String()
}
