// Package account registers users and signs them in. Users live in an
// injected Store; MemoryStore keeps them for the life of the process.
package account
