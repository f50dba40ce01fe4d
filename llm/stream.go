package llm

import (
	"context"
	"errors"
	"io"

	"github.com/kbukum/webgen/httpclient"
)

// ReadText parses a streamed response as Server-Sent Events and delivers the
// text of each event on the returned channel, in order. Events without text
// are skipped. The channel is closed when the stream ends; a failure is
// reported as a final chunk with Err set. The upstream body is closed when
// reading stops, including on context cancellation.
func ReadText(ctx context.Context, d Dialect, resp *httpclient.StreamResponse) <-chan StreamChunk {
	ch := make(chan StreamChunk)
	go readSSE(ctx, d, resp, ch)
	return ch
}

func readSSE(ctx context.Context, d Dialect, resp *httpclient.StreamResponse, ch chan<- StreamChunk) {
	defer close(ch)
	reader := resp.Events()
	defer func() { _ = reader.Close() }()

	send := func(c StreamChunk) bool {
		select {
		case ch <- c:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		event, err := reader.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				send(StreamChunk{Err: err})
			}
			return
		}

		text, ok, err := d.ParseText([]byte(event.Data))
		if err != nil {
			send(StreamChunk{Err: err})
			return
		}
		if !ok || text == "" {
			continue
		}
		if !send(StreamChunk{Content: text}) {
			return
		}
	}
}
