package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Row is a single corpus entry exactly as imported.
type Row struct {
	Author string
	Title  string
	Body   string
}

// Filter restricts Query to an author allow-list and an inclusive body length
// range measured in characters of the raw body.
type Filter struct {
	Authors  []string
	MinChars int
	MaxChars int
}

// AuthorCount reports how many poems one author contributes.
type AuthorCount struct {
	Author string
	Poems  int
}

// Store manages the poem corpus backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the dataset database and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("dataset path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dataset directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS poems (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    author TEXT NOT NULL,
    title TEXT NOT NULL,
    body TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_poems_author ON poems(author);`

// Import replaces the corpus with the rows of a CSV export. Columns are
// matched by header name; extra columns are ignored. It returns the number of
// rows loaded.
func (s *Store) Import(ctx context.Context, csvPath string) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()
	return s.ImportReader(ctx, file)
}

// ImportReader is Import over an arbitrary reader.
func (s *Store) ImportReader(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM poems`); err != nil {
		return 0, fmt.Errorf("clear poems: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO poems (author, title, body) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv row %d: %w", count+2, err)
		}
		if len(record) <= cols.max {
			continue
		}
		author := strings.TrimSpace(record[cols.poet])
		if author == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, author, record[cols.title], record[cols.poem]); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", count+2, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return count, nil
}

type columnIndex struct {
	title, poem, poet, max int
}

func locateColumns(header []string) (columnIndex, error) {
	idx := columnIndex{title: -1, poem: -1, poet: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "title":
			idx.title = i
		case "poem":
			idx.poem = i
		case "poet":
			idx.poet = i
		}
	}
	if idx.title < 0 || idx.poem < 0 || idx.poet < 0 {
		return idx, fmt.Errorf("csv header must contain Title, Poem, and Poet columns (got %v)", header)
	}
	idx.max = max(idx.title, idx.poem, idx.poet)
	return idx, nil
}

// Query returns every row whose author is in the allow-list and whose raw
// body length lies within [MinChars, MaxChars]. An empty allow-list matches
// nothing.
func (s *Store) Query(ctx context.Context, filter Filter) ([]Row, error) {
	if len(filter.Authors) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(filter.Authors))
	args := make([]any, 0, len(filter.Authors)+2)
	for i, author := range filter.Authors {
		placeholders[i] = "?"
		args = append(args, author)
	}
	args = append(args, filter.MinChars, filter.MaxChars)

	query := `SELECT author, title, body FROM poems
        WHERE author IN (` + strings.Join(placeholders, ", ") + `)
          AND length(body) BETWEEN ? AND ?
        ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query poems: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Author, &row.Title, &row.Body); err != nil {
			return nil, fmt.Errorf("scan poem: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Count returns the total number of imported rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poems`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count poems: %w", err)
	}
	return count, nil
}

// Authors lists distinct authors with their poem counts, most prolific first.
func (s *Store) Authors(ctx context.Context) ([]AuthorCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT author, COUNT(*) AS n FROM poems GROUP BY author ORDER BY n DESC, author`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var out []AuthorCount
	for rows.Next() {
		var entry AuthorCount
		if err := rows.Scan(&entry.Author, &entry.Poems); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
