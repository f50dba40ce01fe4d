package httpclient

import "net/http"

// KeyPlacement says where an API key travels on the wire.
type KeyPlacement int

const (
	// InQuery sends the key as a URL query parameter.
	InQuery KeyPlacement = iota
	// InHeader sends the key as a request header.
	InHeader
)

// APIKey attaches a credential to outgoing requests.
type APIKey struct {
	Name  string
	Value string
	In    KeyPlacement
}

// QueryKey sends value as the query parameter name.
func QueryKey(name, value string) *APIKey {
	return &APIKey{Name: name, Value: value, In: InQuery}
}

// HeaderKey sends value in the header name.
func HeaderKey(name, value string) *APIKey {
	return &APIKey{Name: name, Value: value, In: InHeader}
}

func (k *APIKey) apply(req *http.Request) {
	if k == nil || k.Value == "" {
		return
	}
	if k.In == InHeader {
		req.Header.Set(k.Name, k.Value)
		return
	}
	q := req.URL.Query()
	q.Set(k.Name, k.Value)
	req.URL.RawQuery = q.Encode()
}
