package content_test

import (
	"context"
	"errors"
	"testing"

	"trmnl/internal/content"
	"trmnl/internal/dataset"
	"trmnl/internal/services"
)

type fakeSource struct {
	rows  []dataset.Row
	err   error
	calls int
	last  dataset.Filter
}

func (f *fakeSource) Query(_ context.Context, filter dataset.Filter) ([]dataset.Row, error) {
	f.calls++
	f.last = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func TestNewItemNormalizes(t *testing.T) {
	item := content.NewItem("  The   Red\tWheelbarrow ", "so much depends\r\nupon   a red wheel", " William Carlos Williams ")
	if item.Title != "The Red Wheelbarrow" {
		t.Fatalf("unexpected title %q", item.Title)
	}
	if item.Body != "so much depends\nupon\na red wheel" {
		t.Fatalf("unexpected body %q", item.Body)
	}
	if item.Attribution != "William Carlos Williams" {
		t.Fatalf("unexpected attribution %q", item.Attribution)
	}
	if item.LogicalName() != "the_red_wheelbarrow" {
		t.Fatalf("unexpected logical name %q", item.LogicalName())
	}
}

func TestSelectPicksFromFilteredViewAndMemoizes(t *testing.T) {
	source := &fakeSource{rows: []dataset.Row{
		{Author: "Ezra Pound", Title: "A", Body: "one"},
		{Author: "H.D.", Title: "B", Body: "two"},
	}}
	filter := dataset.Filter{Authors: []string{"Ezra Pound", "H.D."}, MinChars: 100, MaxChars: 800}
	selector := content.NewSelector(source, filter, content.WithPicker(func(n int) int { return n - 1 }))

	for range 3 {
		item, err := selector.Select(context.Background())
		if err != nil {
			t.Fatalf("Select returned error: %v", err)
		}
		if item.Title != "B" || item.Attribution != "H.D." {
			t.Fatalf("unexpected item %+v", item)
		}
	}
	if source.calls != 1 {
		t.Fatalf("expected filtered view to be computed once, got %d queries", source.calls)
	}
	if source.last.MinChars != 100 || source.last.MaxChars != 800 {
		t.Fatalf("filter not forwarded: %+v", source.last)
	}
}

func TestSelectEmptyCandidateSet(t *testing.T) {
	selector := content.NewSelector(&fakeSource{}, dataset.Filter{})
	_, err := selector.Select(context.Background())
	if !errors.Is(err, content.ErrEmptyCandidateSet) {
		t.Fatalf("expected ErrEmptyCandidateSet, got %v", err)
	}
	if services.Classify(err) != services.KindConfiguration {
		t.Fatalf("expected configuration kind, got %s", services.Classify(err))
	}
}

func TestCandidatesRetriesAfterSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("disk on fire")}
	selector := content.NewSelector(source, dataset.Filter{})
	if _, err := selector.Candidates(context.Background()); err == nil {
		t.Fatal("expected error from failing source")
	}

	source.err = nil
	source.rows = []dataset.Row{{Author: "X", Title: "T", Body: "B"}}
	items, err := selector.Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates returned error: %v", err)
	}
	if len(items) != 1 || source.calls != 2 {
		t.Fatalf("expected reload after failure, items=%d calls=%d", len(items), source.calls)
	}
}
