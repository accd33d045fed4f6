// Package daemon coordinates the long-running trmnl process.
//
// It takes the single-instance lock, pre-loads the first carousel image so the
// device has something to fetch immediately, and runs the device API until the
// context is cancelled. Content production and HTTP handling live in their own
// packages; the daemon only owns startup and shutdown.
package daemon
