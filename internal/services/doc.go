// Package services defines shared utilities consumed by the content pipeline,
// the slot manager, and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request and device identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep the error
//     taxonomy uniform: configuration/data errors, invariant violations, and
//     upstream (remote model, renderer) failures.
//
// Use these helpers when wiring new components so operational behaviour (error
// classification, observability) stays uniform across the pipeline.
package services
