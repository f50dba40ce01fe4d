// Package server provides the HTTP server for webgen: Gin mounted on a
// ServeMux, served over HTTP/1.1 and cleartext HTTP/2.
//
// Server-wide middleware wraps the mux (server/middleware):
//
//   - Recovery: panic recovery answering the generic 500 body
//   - RequestID: X-Request-Id generation and propagation into log context
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: request body cap
//   - RequestLogger: one structured line per request
//
// Route-level middleware: Auth (Bearer tokens).
//
// Default endpoints (server/endpoint): /health, /alive, /ready, /info and
// /metrics. Unsupported methods on known routes answer 405 with an {error}
// body.
package server
