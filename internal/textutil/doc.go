// Package textutil provides the pure text transformations used before content
// reaches the renderer.
//
// The primary use cases are:
//   - Normalizing raw dataset bodies (line-break variants, space-run breaks,
//     stanza collapsing) and titles (whitespace collapsing)
//   - Deriving logical names, the filesystem-safe cache keys for rendered titles
//
// Every function here is total: any string, including the empty string, is a
// valid input, and normalization is idempotent.
package textutil
