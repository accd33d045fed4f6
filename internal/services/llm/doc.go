// Package llm provides a chat client for OpenAI-compatible completion endpoints.
//
// The poem restoration classifier uses it to route flattened poems and to
// regenerate their line structure. Any server speaking the chat completions
// schema works: a local Ollama instance, OpenRouter, or OpenAI itself.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send an optional system prompt plus a user prompt, receive text.
// Client.CompleteJSON: same request shape with a JSON response format.
// Client.HealthCheck: verify the endpoint and model respond.
//
// # Retry Behaviour
//
// A request is sent once unless Config.RetryAttempts (or WithRetryMaxAttempts)
// raises the limit. Retries apply to HTTP 408/429/5xx, empty content, and
// network timeouts with exponential backoff (base 1s, max 10s). Context
// cancellation aborts retries immediately.
package llm
