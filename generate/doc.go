// Package generate serves the generation endpoints. For every request it
// validates the body, checks the upstream credential, classifies the newest
// turn, picks a system instruction, builds the upstream payload, makes
// exactly one upstream call and hands the answer to the relay.
//
// Nothing outlives a request: history, intent, payload and relay state are
// all request-scoped. The credential is read from the environment on every
// request.
package generate
