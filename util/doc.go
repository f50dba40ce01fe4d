// Package util provides small helpers shared across packages: byte-size
// parsing for body limits and environment value cleanup.
package util
