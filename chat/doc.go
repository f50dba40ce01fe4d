// Package chat defines the conversation model exchanged with callers and
// replayed to the model provider: a History of Turns, each holding one or
// more text Parts. Values are request-scoped and never mutated after decode.
package chat
