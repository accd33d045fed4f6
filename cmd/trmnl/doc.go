// Package main hosts the trmnl CLI entrypoint and command graph.
//
// The Cobra command tree covers the device server (serve), one-shot carousel
// operations (current, next), dataset maintenance (import, candidates,
// prerender), image conversion, environment status, and configuration
// scaffolding. Configuration loading and the content pipeline are wired once
// in commandContext so subcommands only describe their output.
package main
