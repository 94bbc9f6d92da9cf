// Package plan compiles a parsed Cypher statement (internal/cypher/ast.go)
// into a pull-based internal/ops.Operator tree, resolving every variable
// reference to a fixed record slot along the way (§4.6's "compile, don't
// interpret" architecture: the planner and this package run once per
// query text, so every later row only ever does slot arithmetic, never
// string lookups).
//
// Grounded on the teacher's internal/dsl/convert.go, which walks a parsed
// grammar tree into a typed pipeline of query.Stage values the same way
// this package walks cypher.Statement into ops.Operator — alias
// resolution here plays the role convert.go's field-name resolution
// against a reducer's declared schema plays there.
package plan

import (
	"fmt"

	"github.com/ritamzico/graphcypher/internal/cypher"
	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/funcs"
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/ops"
	"github.com/ritamzico/graphcypher/internal/procedure"
	"github.com/ritamzico/graphcypher/internal/schema"
)

// Compiler holds everything clause compilation needs to resolve names
// against: the schema's interned IDs, the live store (for label checks
// and CREATE/SET/DELETE targets), the scalar/aggregate function table,
// and the procedure registry for CALL.
type Compiler struct {
	schema   *schema.Schema
	store    *graphstore.Store
	funcs    *funcs.Registry
	procs    *procedure.Registry
	resolver expr.Resolver

	anonCounter int
	stats       *ops.MutationStats
}

// NewCompiler builds a Compiler bound to one store/schema pair. funcs and
// procs may be nil, in which case funcs.New()/procedure.New() are used —
// callers that want to share one registry across queries should pass
// their own.
func NewCompiler(store *graphstore.Store, sc *schema.Schema, fr *funcs.Registry, pr *procedure.Registry) *Compiler {
	if fr == nil {
		fr = funcs.New()
	}
	if pr == nil {
		pr = procedure.New()
	}
	return &Compiler{
		schema:   sc,
		store:    store,
		funcs:    fr,
		procs:    pr,
		resolver: storeResolver{store: store},
		stats:    &ops.MutationStats{},
	}
}

// anon generates a fresh synthetic alias for an unnamed pattern node or
// edge (querygraph.Build's anon callback, §4.6) — distinct from every
// real identifier the grammar can produce, since those never contain a
// space.
func (c *Compiler) anon() string {
	c.anonCounter++
	return fmt.Sprintf(" anon%d", c.anonCounter)
}

// IndexOp is a standalone CREATE/DROP INDEX statement, compiled directly
// to a schema call rather than an operator tree (§6's "Index operations"
// run once against the catalog, not per row).
type IndexOp struct {
	Create bool // false means drop
	Label  schema.LabelID
	Prop   schema.PropKeyID
}

// Plan is one compiled statement: either an Index op, or an operator
// tree plus the header RETURN/WITH produced it under.
type Plan struct {
	Index   *IndexOp
	Root    ops.Operator
	Header  []string
	Mutates bool
	Stats   *ops.MutationStats
}

// Build compiles a parsed statement into a Plan. stmt.Query's clauses
// run left to right, threading a single mutable scope and a single
// growing operator tree (root) from one clause into the next; WITH/RETURN
// replace the scope, every other clause extends it.
func Build(stmt *cypher.Statement, store *graphstore.Store, sc *schema.Schema, fr *funcs.Registry, pr *procedure.Registry) (*Plan, error) {
	c := NewCompiler(store, sc, fr, pr)

	switch {
	case stmt.CreateIndex != nil:
		label := c.schema.InternLabel(stmt.CreateIndex.Label)
		prop := c.schema.InternProp(stmt.CreateIndex.Prop)
		return &Plan{Index: &IndexOp{Create: true, Label: label, Prop: prop}}, nil
	case stmt.DropIndex != nil:
		label, ok := c.schema.LookupLabel(stmt.DropIndex.Label)
		if !ok {
			return nil, gqerr.Validation("UnknownLabel", "label %q has no index to drop", stmt.DropIndex.Label)
		}
		prop, ok := c.schema.LookupProp(stmt.DropIndex.Prop)
		if !ok {
			return nil, gqerr.Validation("UnknownProperty", "property %q has no index to drop", stmt.DropIndex.Prop)
		}
		return &Plan{Index: &IndexOp{Create: false, Label: label, Prop: prop}}, nil
	}

	return c.buildQuery(stmt.Query)
}

func (c *Compiler) buildQuery(q *cypher.Query) (*Plan, error) {
	sc := newScope()
	var root ops.Operator
	var header []string
	mutates := false

	for i, clause := range q.Clauses {
		if root == nil && needsSeed(clause) {
			root = &ops.Once{Width: sc.width}
		}

		var err error
		switch {
		case clause.Match != nil:
			root, err = c.compileMatch(sc, clause.Match, root)
		case clause.Unwind != nil:
			root, err = c.compileUnwind(sc, clause.Unwind, root)
		case clause.Call != nil:
			root, err = c.compileCall(sc, clause.Call, root)
		case clause.Create != nil:
			mutates = true
			root, err = c.compileCreate(sc, clause.Create.Pattern, root)
		case clause.Merge != nil:
			mutates = true
			root, err = c.compileMerge(sc, clause.Merge, root)
		case clause.SetC != nil:
			mutates = true
			root, err = c.compileSet(sc, clause.SetC, root)
		case clause.Delete != nil:
			mutates = true
			root, err = c.compileDelete(sc, clause.Delete, root)
		case clause.With != nil:
			root, header, sc, err = c.compileProjection(sc, clause.With.Body, clause.With.Where, root)
		case clause.Return != nil:
			if i != len(q.Clauses)-1 {
				err = gqerr.Validation("UnsupportedExpression", "RETURN must be the final clause")
				break
			}
			root, header, sc, err = c.compileProjection(sc, clause.Return.Body, nil, root)
		default:
			err = gqerr.Internal("clause with no recognized arm")
		}
		if err != nil {
			return nil, err
		}
	}

	if header == nil {
		// No RETURN/WITH: a write-only query (CREATE/SET/DELETE/MERGE).
		// The caller still must drain every row root.Next() produces for
		// the writes to take effect; the engine collects those rows under
		// this empty header.
		header = []string{}
	}
	_ = sc

	return &Plan{Root: root, Header: header, Mutates: mutates, Stats: c.stats}, nil
}

// needsSeed reports whether clause is one that reads from the child
// stream rather than producing its own rows from a store scan — CREATE,
// UNWIND, CALL, MERGE, SET and DELETE all need a single seed row to run against when nothing
// upstream has produced one yet (§4.7's Once).
func needsSeed(clause *cypher.Clause) bool {
	return clause.Create != nil || clause.Unwind != nil || clause.Call != nil || clause.Merge != nil || clause.SetC != nil || clause.Delete != nil
}
