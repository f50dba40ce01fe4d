package llm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/webgen/chat"
)

// Dialect maps the conversation model to and from a provider's HTTP format.
type Dialect interface {
	// Name returns the dialect identifier (e.g., "gemini").
	Name() string

	// GeneratePath returns the path of the buffered generation endpoint.
	GeneratePath(model string) string

	// StreamPath returns the path of the streaming generation endpoint.
	StreamPath(model string) string

	// StreamQuery returns extra query parameters for streaming calls.
	StreamQuery() map[string]string

	// BuildPayload maps a history and an optional instruction to the request
	// body. The history must be reproduced without changes; an empty
	// instruction is omitted from the payload.
	BuildPayload(history chat.History, instruction string) (any, error)

	// ParseText extracts the generated text from a response body or from a
	// single stream event. ok is false when the body carries no text.
	ParseText(body []byte) (text string, ok bool, err error)
}

// --- Dialect Registry ---

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect adds a dialect to the global registry. Typically called
// from init() in dialect packages:
//
//	func init() {
//	    llm.RegisterDialect("gemini", &Dialect{})
//	}
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect retrieves a dialect by name from the global registry.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown dialect %q (forgot to import driver?)", name)
	}
	return d, nil
}

// Dialects returns the sorted names of all registered dialects.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
