package llm

// StreamChunk is one text delta extracted from a streamed response.
type StreamChunk struct {
	// Content is the text fragment.
	Content string
	// Err is set on the final chunk when the stream failed.
	Err error
}
