package procedure

import (
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// stringStream is an Instance yielding one string per output row; every
// schema-introspection procedure above produces a flat name list in this
// shape.
type stringStream struct {
	names []string
	pos   int
}

func newStringStream(names []string) *stringStream {
	return &stringStream{names: names}
}

func (s *stringStream) Step() ([]value.Value, bool, error) {
	if s.pos >= len(s.names) {
		return nil, false, nil
	}
	row := []value.Value{value.NewString(s.names[s.pos])}
	s.pos++
	return row, true, nil
}

func (s *stringStream) Reset() error { s.pos = 0; return nil }
func (s *stringStream) Free()        {}

// indexStream is db.indexes' two-column (label, property) Instance.
type indexStream struct {
	entries []schema.IndexDescriptor
	pos     int
}

func newIndexStream(entries []schema.IndexDescriptor) *indexStream {
	return &indexStream{entries: entries}
}

func (s *indexStream) Step() ([]value.Value, bool, error) {
	if s.pos >= len(s.entries) {
		return nil, false, nil
	}
	e := s.entries[s.pos]
	row := []value.Value{value.NewString(e.Label), value.NewString(e.Prop)}
	s.pos++
	return row, true, nil
}

func (s *indexStream) Reset() error { s.pos = 0; return nil }
func (s *indexStream) Free()        {}
