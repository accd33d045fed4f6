// Package restore repairs poems whose line structure was flattened when the
// corpus was scraped.
//
// A cheap heuristic (NeedsRestoration) decides whether an item looks like
// prose. Items that pass are returned untouched without any remote call.
// Flattened items are routed through a text-generation model: first a yes/no
// question asking whether the model knows the poem, then either a faithful
// restoration or a forensic reconstruction of the lineation.
package restore
