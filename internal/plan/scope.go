package plan

import "github.com/ritamzico/graphcypher/internal/graphstore"

// scope is the alias -> slot symbol table threaded through clause
// compilation (§4.6's planner consumes aliases; everything downstream of
// it works in slots). Each clause either extends the current scope (MATCH
// introduces its pattern's aliases, UNWIND introduces its bound name,
// CALL...YIELD introduces its outputs) or replaces it outright (WITH
// re-exports only the names it projects, per Cypher's scoping rule).
type scope struct {
	slots map[string]int
	kinds map[string]graphstore.EntityKind // only set for node/edge pattern aliases
	order []string                         // returnable aliases in bind order, for RETURN/WITH *
	width int
}

func newScope() *scope {
	return &scope{slots: make(map[string]int), kinds: make(map[string]graphstore.EntityKind)}
}

// bind allocates a fresh slot for alias if it doesn't already have one,
// returning the slot either way (repeated pattern aliases within one
// clause, e.g. `(a)-->()-->(a)`, must resolve to the same slot).
func (s *scope) bind(alias string) int {
	if alias == "" {
		slot := s.width
		s.width++
		return slot
	}
	if slot, ok := s.slots[alias]; ok {
		return slot
	}
	slot := s.width
	s.slots[alias] = slot
	s.width++
	return slot
}

func (s *scope) lookup(alias string) (int, bool) {
	slot, ok := s.slots[alias]
	return slot, ok
}

// markReturnable records alias as eligible for RETURN/WITH *'s implicit
// item list, in first-seen order. Anonymous pattern aliases are never
// marked, so a bare "()" never shows up in a star projection.
func (s *scope) markReturnable(alias string) {
	if alias == "" {
		return
	}
	for _, a := range s.order {
		if a == alias {
			return
		}
	}
	s.order = append(s.order, alias)
}

// setKind records whether alias names a node or an edge entity, so a
// later SET/DELETE clause knows which graphstore table an operation on
// it touches.
func (s *scope) setKind(alias string, k graphstore.EntityKind) {
	if alias == "" {
		return
	}
	s.kinds[alias] = k
}

func (s *scope) kindOf(alias string) (graphstore.EntityKind, bool) {
	k, ok := s.kinds[alias]
	return k, ok
}

// bound reports every alias currently in scope, the planner.Build
// boundAliases input (§4.6 rule 2's "bound alias" entry-point class).
func (s *scope) bound() map[string]bool {
	out := make(map[string]bool, len(s.slots))
	for k := range s.slots {
		out[k] = true
	}
	return out
}
