// Package server exposes the HTTP API the display device polls.
//
// The device calls /api/setup once after joining the network, then
// /api/display on every wake to learn which bitmap to fetch from
// /api/image/{filename}. Each display request advances the carousel; when
// producing a new image fails the previously promoted one is reported
// instead so the screen keeps showing something.
package server
