// Package value implements the tagged scalar Value used throughout the
// query pipeline: the payload carried by every Record slot, expression
// result, and aggregate context.
package value

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

// Kind tags the active payload of a Value. The zero Kind is Null.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	NodeRef
	EdgeRef
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "NULL"
	case Bool:
		return "BOOL"
	case Int:
		return "INT64"
	case Float:
		return "DOUBLE"
	case String:
		return "STRING"
	case NodeRef:
		return "NODE_REF"
	case EdgeRef:
		return "EDGE_REF"
	default:
		return "UNKNOWN"
	}
}

// Value is a tagged union over {NULL, BOOL, INT64, DOUBLE, STRING, NODE_REF,
// EDGE_REF}. The tag (Kind) must never disagree with the active payload
// field: i, f and b are only meaningful when Kind is Int/Float, Bool
// respectively; s holds STRING text or is empty for every other kind; ref
// holds the entity id for NodeRef/EdgeRef.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
	ref  uint64
}

// NewNull returns the NULL value.
func NewNull() Value { return Value{kind: Null} }

// NewBool wraps a bool.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewInt wraps an int64.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewFloat wraps a float64.
func NewFloat(f float64) Value { return Value{kind: Float, f: f} }

// NewString wraps a string. The string is owned by the Value's caller;
// Go's garbage collector makes the "owns its bytes unless constant-borrowed"
// distinction in §3 moot, so NewString always copies-by-value the way Go
// strings already do.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewNodeRef wraps a node id.
func NewNodeRef(id uint64) Value { return Value{kind: NodeRef, ref: id} }

// NewEdgeRef wraps an edge id.
func NewEdgeRef(id uint64) Value { return Value{kind: EdgeRef, ref: id} }

// Kind reports the tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean payload; only meaningful when Kind() == Bool.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload; only meaningful when Kind() == Int.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload; only meaningful when Kind() == Float.
func (v Value) Float() float64 { return v.f }

// Str returns the string payload; only meaningful when Kind() == String.
func (v Value) Str() string { return v.s }

// RefID returns the entity id payload; only meaningful when Kind() is
// NodeRef or EdgeRef.
func (v Value) RefID() uint64 { return v.ref }

// AsFloat64 promotes an Int or Float value to float64. Callers must check
// Kind() first (Int or Float) — calling this on any other kind panics, the
// same contract violation an assertion would catch, since the arithmetic
// engine never calls it on a value it hasn't already type-checked.
func (v Value) AsFloat64() float64 {
	switch v.kind {
	case Int:
		return float64(v.i)
	case Float:
		return v.f
	default:
		panic("value: AsFloat64 called on non-numeric Value")
	}
}

// Truthy implements Cypher's predicate coercion: NULL and false-BOOL are
// falsy, every other value (including 0, "", etc.) is truthy. Filter and
// WHERE clauses call this on the evaluated expression.
func (v Value) Truthy() bool {
	switch v.kind {
	case Null:
		return false
	case Bool:
		return v.b
	default:
		return true
	}
}

// CompareResult is the outcome of comparing two values.
type CompareResult int

const (
	Less CompareResult = -1
	Equal CompareResult = 0
	Greater CompareResult = 1
	Incomparable CompareResult = 2
)

// Compare implements the total order described in §3/§4.1: same-kind
// scalars compare naturally; INT vs DOUBLE promotes to DOUBLE; any other
// kind mismatch, or a compare involving NULL, is Incomparable. Ordering of
// Incomparable relative to everything else (NULL sorts last under ASC,
// first under DESC) is the caller's (ORDER BY / Sort operator's)
// responsibility, not this function's.
func Compare(a, b Value) CompareResult {
	if a.kind == Null || b.kind == Null {
		return Incomparable
	}

	if isNumeric(a.kind) && isNumeric(b.kind) {
		return compareFloat(a.AsFloat64(), b.AsFloat64())
	}

	if a.kind != b.kind {
		return Incomparable
	}

	switch a.kind {
	case Bool:
		if a.b == b.b {
			return Equal
		}
		if !a.b && b.b {
			return Less
		}
		return Greater
	case String:
		switch {
		case a.s < b.s:
			return Less
		case a.s > b.s:
			return Greater
		default:
			return Equal
		}
	case NodeRef, EdgeRef:
		return compareUint64(a.ref, b.ref)
	default:
		return Incomparable
	}
}

func isNumeric(k Kind) bool { return k == Int || k == Float }

func compareFloat(a, b float64) CompareResult {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

func compareUint64(a, b uint64) CompareResult {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

// KeyEqual reports exact equality under DISTINCT/group-key semantics: two
// NULLs are equal to each other there even though Compare treats NULL as
// Incomparable with everything (§4.8, §8 property 7 — "two NULLs collapse
// within group keys").
func KeyEqual(a, b Value) bool {
	if a.kind == Null && b.kind == Null {
		return true
	}
	if a.kind == Null || b.kind == Null {
		return false
	}
	if isNumeric(a.kind) && isNumeric(b.kind) {
		return a.AsFloat64() == b.AsFloat64()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Bool:
		return a.b == b.b
	case String:
		return a.s == b.s
	case NodeRef, EdgeRef:
		return a.ref == b.ref
	default:
		return true
	}
}

// String renders v in the canonical testable form of §6.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "NULL"
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	case String:
		return quoteString(v.s)
	case NodeRef:
		return fmt.Sprintf("(id:%d)", v.ref)
	case EdgeRef:
		return fmt.Sprintf("[id:%d]", v.ref)
	default:
		return "NULL"
	}
}

// formatFloat renders the shortest round-trip decimal form required by §6,
// always keeping a decimal point so "3" and "3.0" are distinguishable in
// result rows.
func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Fingerprint returns a stable 64-bit digest of v's canonical byte form,
// used as the grouping-key shortcut of §4.8 ("GLOSSARY ADDITION" in
// SPEC_FULL.md). Collisions are resolved by the caller via Equal.
func (v Value) Fingerprint() uint64 {
	// KeyEqual treats 1 and 1.0 as one key, so an integral DOUBLE hashes
	// as the INT64 it equals.
	if v.kind == Float && v.f == math.Trunc(v.f) && math.Abs(v.f) < 1<<63 {
		v = NewInt(int64(v.f))
	}
	h := fnv.New64a()
	h.Write([]byte{byte(v.kind)})
	switch v.kind {
	case Bool:
		if v.b {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case Int:
		var buf [8]byte
		putUint64(&buf, uint64(v.i))
		h.Write(buf[:])
	case Float:
		var buf [8]byte
		putUint64(&buf, math.Float64bits(v.f))
		h.Write(buf[:])
	case String:
		h.Write([]byte(v.s))
	case NodeRef, EdgeRef:
		var buf [8]byte
		putUint64(&buf, v.ref)
		h.Write(buf[:])
	}
	return h.Sum64()
}

func putUint64(buf *[8]byte, x uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(x >> (8 * i))
	}
}
