// Package preflight provides readiness checks for the filesystem paths and
// external services trmnl depends on.
//
// The CLI "trmnl status" command runs RunAll and prints each Result. The
// checks never mutate state: a missing directory is reported, not created.
package preflight
