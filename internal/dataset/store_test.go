package dataset_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"trmnl/internal/dataset"
)

const sampleCSV = `,Title,Poem,Poet,Tags
0,"The Red Wheelbarrow","so much depends
upon

a red wheel
barrow

glazed with rain
water

beside the white
chickens.",William Carlos Williams,
1,Short,"tiny",Ezra Pound,
2,"In a Station of the Metro","The apparition of these faces in the crowd; Petals on a wet, black bough. And a few more words to pass the minimum length easily.",Ezra Pound,imagism
3,"Elsewhere","Written by someone not on the allow-list, long enough to pass the minimum length threshold with some room to spare.",Somebody Else,
`

func openStore(t *testing.T) *dataset.Store {
	t.Helper()
	store, err := dataset.Open(filepath.Join(t.TempDir(), "poems.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestImportAndQueryFiltersByAuthorAndLength(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	n, err := store.ImportReader(ctx, strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ImportReader returned error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 rows imported, got %d", n)
	}

	rows, err := store.Query(ctx, dataset.Filter{
		Authors:  []string{"William Carlos Williams", "Ezra Pound"},
		MinChars: 50,
		MaxChars: 800,
	})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Title != "The Red Wheelbarrow" || rows[1].Title != "In a Station of the Metro" {
		t.Fatalf("unexpected titles: %q, %q", rows[0].Title, rows[1].Title)
	}
	if !strings.Contains(rows[0].Body, "\n") {
		t.Fatalf("expected body to keep raw line breaks, got %q", rows[0].Body)
	}
}

func TestQueryLengthBoundsAreInclusive(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if _, err := store.ImportReader(ctx, strings.NewReader("Title,Poem,Poet\nA,abcd,X\nB,abcdé,X\n")); err != nil {
		t.Fatalf("ImportReader returned error: %v", err)
	}

	rows, err := store.Query(ctx, dataset.Filter{Authors: []string{"X"}, MinChars: 4, MaxChars: 5})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both rows within inclusive bounds (length in characters), got %d", len(rows))
	}
}

func TestQueryEmptyAllowListMatchesNothing(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if _, err := store.ImportReader(ctx, strings.NewReader(sampleCSV)); err != nil {
		t.Fatalf("ImportReader returned error: %v", err)
	}
	rows, err := store.Query(ctx, dataset.Filter{MinChars: 0, MaxChars: 10000})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestImportReplacesPreviousRows(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if _, err := store.ImportReader(ctx, strings.NewReader(sampleCSV)); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if _, err := store.ImportReader(ctx, strings.NewReader("Poet,Title,Poem\nH.D.,Oread,whirl up sea\n")); err != nil {
		t.Fatalf("second import: %v", err)
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after re-import, got %d", count)
	}

	authors, err := store.Authors(ctx)
	if err != nil {
		t.Fatalf("Authors returned error: %v", err)
	}
	if len(authors) != 1 || authors[0].Author != "H.D." || authors[0].Poems != 1 {
		t.Fatalf("unexpected authors %+v", authors)
	}
}

func TestImportRejectsMissingColumns(t *testing.T) {
	store := openStore(t)
	if _, err := store.ImportReader(context.Background(), strings.NewReader("Title,Body\nA,B\n")); err == nil {
		t.Fatal("expected error for header without Poem/Poet columns")
	}
}
