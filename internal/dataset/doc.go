// Package dataset persists the poem corpus in SQLite.
//
// The corpus arrives as a Poetry Foundation style CSV export with Title,
// Poem, and Poet columns. Import loads it into a single table so that the
// content selector can filter by author and body length without keeping the
// whole export in memory. The store is read-only from the selector's point of
// view; only Import writes.
package dataset
