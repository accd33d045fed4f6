// Package carousel owns the working slot: a directory that holds exactly one
// servable bitmap.
//
// Current returns the bitmap in the slot. Advance asks the configured engine
// for a new bitmap, copies it into the slot under a fresh unique name via an
// atomic rename, and removes whatever it replaced. Every operation sweeps the
// slot on entry and exit so that at most one bitmap survives, even after a
// crash left extra files behind.
//
// Slot mutations run under an in-process mutex and a cross-process advisory
// file lock next to the working directory. The engine call itself runs
// outside the lock, so a slow render never blocks Current.
package carousel
