// Package procedure implements the CALL interface of §6: a procedure is
// "(name, [input types], [output names and types], step → Option<record>,
// reset, free)"; the engine invokes step until it returns None.
//
// No direct teacher analogue — the teacher has no procedure concept.
// Grounded, for the struct-of-closures-around-shared-state shape, on the
// teacher's query.Reducer family (internal/query/reducer.go): small,
// independently testable value types implementing a single-method
// interface, registered once into a name-keyed table the way Reducer
// implementations are looked up from parsed reducer syntax in
// internal/dsl/convert.go.
package procedure

import (
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// Output names one declared output column of a procedure, in declaration
// order — the order CALL ... (without an explicit YIELD) yields them in,
// per §6 and the `ast_build_op_contexts.c`-grounded supplement.
type Output struct {
	Name string
	Kind value.Kind
}

// Instance is one invocation of a procedure.
type Instance interface {
	// Step produces the next output row, or ok=false once exhausted (the
	// spec's Option<record> None).
	Step() (row []value.Value, ok bool, err error)
	// Reset rewinds the instance so CondTraverse-style re-pulling (a
	// procedure called once per outer record) can step it again from the
	// start.
	Reset() error
	// Free releases any resources the instance holds. Every built-in
	// procedure here only holds a Go slice, so Free is a no-op for all of
	// them; the method exists so a future procedure backed by an external
	// resource (a file handle, a network cursor) has somewhere to put its
	// cleanup without changing the interface.
	Free()
}

// Procedure is the (name, input types, output columns, constructor) tuple
// of §6. Call binds one invocation's arguments against the schema and returns a
// fresh Instance.
type Procedure struct {
	Name    string
	Inputs  []value.Kind
	Outputs []Output
	Call    func(sc *schema.Schema, args []value.Value) (Instance, error)
}

// Registry is the process-wide procedure table, populated once at startup.
type Registry struct {
	procs map[string]*Procedure
}

// New builds a Registry with every built-in procedure registered.
func New() *Registry {
	r := &Registry{procs: make(map[string]*Procedure)}
	registerCatalog(r)
	return r
}

func (r *Registry) register(p *Procedure) {
	r.procs[p.Name] = p
}

// Lookup resolves a procedure by its exact, case-sensitive name — unlike
// internal/funcs' scalar functions, Cypher procedure names are dotted
// namespaced identifiers (`db.labels`) conventionally treated as
// case-sensitive, so no folding is applied here.
func (r *Registry) Lookup(name string) (*Procedure, bool) {
	p, ok := r.procs[name]
	return p, ok
}

func arityError(name string, want, got int) error {
	return gqerr.Validation("ProcedureArity", "%s expects %d argument(s), got %d", name, want, got)
}
