package testsupport

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"trmnl/internal/config"
	"trmnl/internal/dataset"
)

// Poem is one dataset row used to seed test stores.
type Poem struct {
	Title string
	Body  string
	Poet  string
}

// MustOpenStore opens the configured dataset for tests and registers cleanup.
// Any poems given are imported through the CSV path.
func MustOpenStore(t testing.TB, cfg *config.Config, poems ...Poem) *dataset.Store {
	t.Helper()

	store, err := dataset.Open(cfg.Paths.DatasetPath)
	if err != nil {
		t.Fatalf("dataset.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	if len(poems) > 0 {
		if _, err := store.ImportReader(context.Background(), strings.NewReader(PoemsCSV(t, poems...))); err != nil {
			t.Fatalf("import poems: %v", err)
		}
	}
	return store
}

// PoemsCSV renders poems in the dataset's CSV layout.
func PoemsCSV(t testing.TB, poems ...Poem) string {
	t.Helper()

	var b strings.Builder
	w := csv.NewWriter(&b)
	records := [][]string{{"Title", "Poem", "Poet"}}
	for _, p := range poems {
		records = append(records, []string{p.Title, p.Body, p.Poet})
	}
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return b.String()
}
