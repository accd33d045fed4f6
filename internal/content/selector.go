package content

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"trmnl/internal/dataset"
	"trmnl/internal/services"
)

// ErrEmptyCandidateSet reports that no dataset row passes the filter. It is a
// configuration problem and retrying will not help.
var ErrEmptyCandidateSet = fmt.Errorf("%w: no candidate items match the filter", services.ErrConfiguration)

// Source supplies raw rows for a filter.
type Source interface {
	Query(ctx context.Context, filter dataset.Filter) ([]dataset.Row, error)
}

// Picker returns a uniformly random index in [0, n).
type Picker func(n int) int

// Selector draws items from the memoized filtered view of a Source.
type Selector struct {
	source Source
	filter dataset.Filter
	pick   Picker

	mu     sync.Mutex
	loaded bool
	items  []Item
}

// Option customizes a Selector.
type Option func(*Selector)

// WithPicker replaces the random index source (useful for tests).
func WithPicker(p Picker) Option {
	return func(s *Selector) {
		if p != nil {
			s.pick = p
		}
	}
}

// NewSelector constructs a Selector. The filtered view is not read until the
// first Select or Candidates call.
func NewSelector(source Source, filter dataset.Filter, opts ...Option) *Selector {
	s := &Selector{
		source: source,
		filter: filter,
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns one item chosen uniformly from the filtered view.
func (s *Selector) Select(ctx context.Context) (Item, error) {
	items, err := s.Candidates(ctx)
	if err != nil {
		return Item{}, err
	}
	if len(items) == 0 {
		return Item{}, ErrEmptyCandidateSet
	}
	return items[s.pick(len(items))], nil
}

// Candidates returns the full filtered view. The first successful read is
// cached; a failed read is retried on the next call.
func (s *Selector) Candidates(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.items, nil
	}
	rows, err := s.source.Query(ctx, s.filter)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "content", "query", "read candidate rows", err)
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewItem(row.Title, row.Body, row.Author))
	}
	s.items = items
	s.loaded = true
	return s.items, nil
}
