// Package content selects the next poem to display.
//
// A Selector filters an injected Source (normally the SQLite dataset) down to
// an author allow-list and a body length window, memoizes that view for the
// life of the process, and draws from it uniformly at random. Items leave the
// package already normalized.
package content
