package intent

import "fmt"

// Intent is the classified purpose of the newest user turn.
type Intent int

const (
	Conversational Intent = iota
	Greeting
	CodeRequest
)

func (i Intent) String() string {
	switch i {
	case Conversational:
		return "conversational"
	case Greeting:
		return "greeting"
	case CodeRequest:
		return "code_request"
	default:
		return fmt.Sprintf("intent(%d)", int(i))
	}
}

// Granularity controls how many intents the classifier distinguishes.
type Granularity string

const (
	// Binary separates code requests from everything else.
	Binary Granularity = "binary"
	// Ternary also recognises greetings.
	Ternary Granularity = "ternary"
	// Delegated classifies nothing and lets the model choose.
	Delegated Granularity = "delegated"
)

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	switch g {
	case Binary, Ternary, Delegated:
		return true
	}
	return false
}
