package matrix

import "github.com/ritamzico/graphcypher/internal/value"

// Monoid is an associative, commutative binary operator with an identity
// (GLOSSARY: "Monoid"). Plus combines two accumulated cell values (used by
// mxm's accum/mask step and by element_wise_add).
type Monoid struct {
	Name     string
	Identity value.Value
	Plus     func(a, b value.Value) value.Value
}

// Semiring pairs a Monoid with a Multiply operator that distributes over
// Plus (GLOSSARY: "Semiring"). mxm/vxm/mxv reduce the multiply results of a
// row/column pair through the monoid's Plus.
type Semiring struct {
	Name     string
	Monoid   Monoid
	Multiply func(a, b value.Value) value.Value
}

func boolOr(a, b value.Value) value.Value { return value.NewBool(a.Bool() || b.Bool()) }
func boolAnd(a, b value.Value) value.Value { return value.NewBool(a.Bool() && b.Bool()) }

// AnyPairBool is used for existence traversal (§4.3): any edge's presence
// wins, the multiply is logical AND over two boolean masks.
var AnyPairBool = Semiring{
	Name:     "ANY_PAIR_BOOL",
	Monoid:   Monoid{Name: "ANY_BOOL", Identity: value.NewBool(false), Plus: boolOr},
	Multiply: func(a, b value.Value) value.Value { return value.NewBool(a.Bool() && b.Bool()) },
}

// LorLandBool implements boolean reachability: logical-OR monoid,
// logical-AND multiply.
var LorLandBool = Semiring{
	Name:     "LOR_LAND_BOOL",
	Monoid:   Monoid{Name: "LOR_BOOL", Identity: value.NewBool(false), Plus: boolOr},
	Multiply: boolAnd,
}

// MinFirstJInt64 is a semiring for BFS-parent-style traversal: multiply
// carries the second operand's stored value (b) through, and the MIN monoid
// keeps the smallest of those values.
var MinFirstJInt64 = Semiring{
	Name: "MIN_FIRSTJ_INT64",
	Monoid: Monoid{
		Name:     "MIN_INT64",
		Identity: value.NewInt(int64(^uint64(0) >> 1)),
		Plus: func(a, b value.Value) value.Value {
			if a.Int() < b.Int() {
				return a
			}
			return b
		},
	},
	Multiply: func(a, b value.Value) value.Value { return b },
}

// MaxFirstJInt64 is MinFirstJInt64's MAX-monoid counterpart.
var MaxFirstJInt64 = Semiring{
	Name: "MAX_FIRSTJ_INT64",
	Monoid: Monoid{
		Name:     "MAX_INT64",
		Identity: value.NewInt(-1 << 63),
		Plus: func(a, b value.Value) value.Value {
			if a.Int() > b.Int() {
				return a
			}
			return b
		},
	},
	Multiply: func(a, b value.Value) value.Value { return b },
}

// PlusTimesInt64 is the minimum numeric semiring §4.3 requires: ordinary
// addition/multiplication over INT64.
var PlusTimesInt64 = Semiring{
	Name: "PLUS_TIMES_INT64",
	Monoid: Monoid{
		Name:     "PLUS_INT64",
		Identity: value.NewInt(0),
		Plus:     func(a, b value.Value) value.Value { return value.NewInt(a.Int() + b.Int()) },
	},
	Multiply: func(a, b value.Value) value.Value { return value.NewInt(a.Int() * b.Int()) },
}

// PlusTimesFloat64 is PlusTimesInt64's DOUBLE counterpart.
var PlusTimesFloat64 = Semiring{
	Name: "PLUS_TIMES_FLOAT64",
	Monoid: Monoid{
		Name:     "PLUS_FLOAT64",
		Identity: value.NewFloat(0),
		Plus:     func(a, b value.Value) value.Value { return value.NewFloat(a.AsFloat64() + b.AsFloat64()) },
	},
	Multiply: func(a, b value.Value) value.Value { return value.NewFloat(a.AsFloat64() * b.AsFloat64()) },
}
