package util

import (
	"fmt"
	"strings"

	"github.com/docker/go-units"
)

// ParseSize parses a byte size such as "10MB", "512KiB" or "1048576".
// Units are binary (1MB is 1024*1024 bytes). Zero is rejected.
func ParseSize(s string) (int64, error) {
	n, err := units.RAMInBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid size %q: must be positive", s)
	}
	return n, nil
}
