package plan

import (
	"fmt"
	"io"
	"strings"

	"github.com/ritamzico/graphcypher/internal/ops"
)

// Explain walks root and writes an indented one-line-per-operator tree,
// the same shape a RedisGraph-family engine's plan printer takes with
// op_produce_results sitting at the root. This is additive tooling for
// humans inspecting a compiled plan; it is not consulted by Execute.
func Explain(w io.Writer, root ops.Operator) {
	explain(w, root, 0)
}

func explain(w io.Writer, op ops.Operator, depth int) {
	indent := strings.Repeat("    ", depth)
	fmt.Fprintf(w, "%s%s\n", indent, describe(op))
	for _, child := range children(op) {
		explain(w, child, depth+1)
	}
}

// describe renders one operator's label line. Operators with no
// interesting parameters print just their kind name.
func describe(op ops.Operator) string {
	switch o := op.(type) {
	case *ops.ProduceResults:
		return "ProduceResults"
	case *ops.AllNodeScan:
		return fmt.Sprintf("AllNodeScan(slot=%d)", o.Slot)
	case *ops.NodeByLabelScan:
		return fmt.Sprintf("NodeByLabelScan(slot=%d, label=%d)", o.Slot, o.Label)
	case *ops.NodeByIndexScan:
		return fmt.Sprintf("NodeByIndexScan(slot=%d, label=%d, prop=%d)", o.Slot, o.Label, o.Prop)
	case *ops.CondTraverse:
		return fmt.Sprintf("CondTraverse(%s)", describeTraverseDesc(o.Desc))
	case *ops.CondVarLenTraverse:
		return fmt.Sprintf("CondVarLenTraverse(%s)", describeTraverseDesc(o.Desc))
	case *ops.ExpandInto:
		return fmt.Sprintf("ExpandInto(%s)", describeTraverseDesc(o.Desc))
	case *ops.Filter:
		return "Filter"
	case *ops.Project:
		return fmt.Sprintf("Project(%d cols)", len(o.Exprs))
	case *ops.Aggregate:
		return fmt.Sprintf("Aggregate(%d keys, %d aggs)", len(o.KeyExprs), len(o.AggExprs))
	case *ops.Distinct:
		return "Distinct"
	case *ops.Sort:
		return fmt.Sprintf("Sort(%d keys)", len(o.Keys))
	case *ops.Skip:
		return "Skip"
	case *ops.Limit:
		return "Limit"
	case *ops.Unwind:
		return "Unwind"
	case *ops.Cartesian:
		return "Cartesian"
	case *ops.ProcedureCall:
		name := "?"
		if o.Proc != nil {
			name = o.Proc.Name
		}
		return fmt.Sprintf("ProcedureCall(%s)", name)
	case *ops.Create:
		return fmt.Sprintf("Create(%d nodes, %d edges)", len(o.Nodes), len(o.Edges))
	case *ops.Update:
		return fmt.Sprintf("Update(%d props, %d labelOps)", len(o.Properties), len(o.Labels))
	case *ops.Delete:
		return fmt.Sprintf("Delete(%d items)", len(o.Items))
	case *ops.Merge:
		return "Merge"
	case *ops.Once:
		return "Once"
	default:
		return fmt.Sprintf("%T", op)
	}
}

func describeTraverseDesc(d ops.TraverseDesc) string {
	s := fmt.Sprintf("srcSlot=%d, dstSlot=%d", d.SrcSlot, d.DstSlot)
	if d.Variable {
		maxHops := "inf"
		if d.MaxHops >= 0 {
			maxHops = fmt.Sprintf("%d", d.MaxHops)
		}
		s += fmt.Sprintf(", hops=%d..%s", d.MinHops, maxHops)
	}
	return s
}

// children returns op's child operators, in the order they should be
// printed. Most operators carry a single Child; Cartesian carries Left
// and Right; leaf scans and Once have none.
func children(op ops.Operator) []ops.Operator {
	switch o := op.(type) {
	case *ops.ProduceResults:
		return []ops.Operator{o.Child}
	case *ops.CondTraverse:
		return []ops.Operator{o.Child}
	case *ops.CondVarLenTraverse:
		return []ops.Operator{o.Child}
	case *ops.ExpandInto:
		return []ops.Operator{o.Child}
	case *ops.Filter:
		return []ops.Operator{o.Child}
	case *ops.Project:
		return []ops.Operator{o.Child}
	case *ops.Aggregate:
		return []ops.Operator{o.Child}
	case *ops.Distinct:
		return []ops.Operator{o.Child}
	case *ops.Sort:
		return []ops.Operator{o.Child}
	case *ops.Skip:
		return []ops.Operator{o.Child}
	case *ops.Limit:
		return []ops.Operator{o.Child}
	case *ops.Unwind:
		return []ops.Operator{o.Child}
	case *ops.Cartesian:
		return []ops.Operator{o.Left, o.Right}
	case *ops.ProcedureCall:
		return []ops.Operator{o.Child}
	case *ops.Create:
		return []ops.Operator{o.Child}
	case *ops.Update:
		return []ops.Operator{o.Child}
	case *ops.Delete:
		return []ops.Operator{o.Child}
	case *ops.Merge:
		return []ops.Operator{o.Child}
	default:
		return nil
	}
}
