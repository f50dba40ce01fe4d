// Package llm builds and sends generation requests to a model provider.
//
// Provider wire formats live behind the [Dialect] interface, similar to how
// database/sql works with drivers. A dialect registers itself on import:
//
//	import (
//	    "github.com/kbukum/webgen/llm"
//	    _ "github.com/kbukum/webgen/llm/gemini"
//	)
//
//	adapter, err := llm.New(llm.Config{Dialect: "gemini"})
//	payload, _ := adapter.Dialect().BuildPayload(history, instruction)
//	resp, err := adapter.Generate(ctx, apiKey, payload)
//
// The [Adapter] makes exactly one attempt per call and maps failures onto the
// service error taxonomy: transport problems become UpstreamUnreachable and
// non-success statuses become UpstreamError carrying the provider's status.
package llm
