// Package relay returns an upstream generation to the caller.
//
// Two delivery modes exist. Buffered waits for the complete upstream
// response, extracts the generated text and answers with a small JSON
// object. Streamed forwards upstream bytes to the caller as they arrive,
// flushing after each read, and reports how the stream ended through the
// X-Generation-Status HTTP trailer ("complete" or "aborted"). Once the
// status line has been sent no error body is ever written.
package relay
