// Package errors provides the error taxonomy of the generation relay.
// Every failure that can reach a caller is an *AppError carrying a
// machine-readable code and the HTTP status it maps to. Handlers return
// AppErrors and a single boundary (server.RespondWithError) turns them into
// the client-facing {"error": "..."} body.
package errors
