// Package version exposes build metadata for the webgen binary.
//
// Values are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/webgen/version.Version=1.0.0" ./cmd/webgen
package version
