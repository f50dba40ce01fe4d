package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/webgen/httpclient"
	"github.com/kbukum/webgen/llm"
	"github.com/kbukum/webgen/logger"
)

// StatusTrailer is the HTTP trailer that reports how a stream ended.
const StatusTrailer = "X-Generation-Status"

const (
	StatusComplete = "complete"
	StatusAborted  = "aborted"
)

const readBufferSize = 32 * 1024

// State is a stage of a streamed relay.
type State int

const (
	Idle State = iota
	HeadersSent
	Streaming
	Closed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case HeadersSent:
		return "headers_sent"
	case Streaming:
		return "streaming"
	case Closed:
		return "closed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Outcome describes a finished stream.
type Outcome struct {
	State  State
	Chunks int
	Bytes  int64
	// Err is the cause of an abort: an upstream read error, a caller write
	// error or the context error.
	Err error
}

// Complete reports whether the upstream stream reached its end.
func (o Outcome) Complete() bool { return o.State == Closed }

// streamer holds the per-response state machine.
type streamer struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	log     *logger.Logger
	outcome Outcome
}

func newStreamer(w http.ResponseWriter, log *logger.Logger) *streamer {
	return &streamer{w: w, rc: http.NewResponseController(w), log: log}
}

// sendHeaders commits the 200 status. Nothing about the response can change
// after this except the trailer.
func (s *streamer) sendHeaders() {
	// Streams outlive any server write timeout.
	if err := s.rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.log.Warn("Could not disable write deadline", logger.ErrorFields("relay.stream", err))
	}

	h := s.w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Accel-Buffering", "no")
	h.Set("Trailer", StatusTrailer)
	s.w.WriteHeader(http.StatusOK)
	s.flush()
	s.outcome.State = HeadersSent
}

func (s *streamer) write(p []byte) error {
	if _, err := s.w.Write(p); err != nil {
		return err
	}
	s.outcome.State = Streaming
	s.outcome.Chunks++
	s.outcome.Bytes += int64(len(p))
	return s.flush()
}

func (s *streamer) flush() error {
	err := s.rc.Flush()
	if errors.Is(err, http.ErrNotSupported) {
		return nil
	}
	return err
}

func (s *streamer) finish(err error) Outcome {
	status := StatusComplete
	s.outcome.State = Closed
	if err != nil {
		status = StatusAborted
		s.outcome.State = Aborted
		s.outcome.Err = err
	}
	s.w.Header().Set(StatusTrailer, status)
	return s.outcome
}

// closer closes an upstream body exactly once.
type closer struct {
	once sync.Once
	c    io.Closer
}

func (c *closer) Close() {
	c.once.Do(func() { _ = c.c.Close() })
}

// Stream copies body to w as bytes arrive, in order and unmodified, flushing
// after every read. Context cancellation or a failed write stops reading and
// closes body. The returned outcome has already been reported in the trailer.
func (r *Relay) Stream(ctx context.Context, w http.ResponseWriter, body io.ReadCloser) Outcome {
	log := r.log.WithContext(ctx)
	s := newStreamer(w, log)
	upstream := &closer{c: body}
	defer upstream.Close()

	// A blocked Read returns once the body is closed.
	stop := context.AfterFunc(ctx, upstream.Close)
	defer stop()

	s.sendHeaders()

	buf := make([]byte, readBufferSize)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if ctx.Err() != nil {
				return r.end(log, s, ctx.Err())
			}
			if err := s.write(buf[:n]); err != nil {
				upstream.Close()
				return r.end(log, s, err)
			}
		}
		if readErr == nil {
			continue
		}
		if errors.Is(readErr, io.EOF) {
			return r.end(log, s, nil)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			readErr = ctxErr
		}
		return r.end(log, s, readErr)
	}
}

// TextStream relays only the generated text of an SSE upstream. It shares
// headers, trailer and abort rules with Stream.
func (r *Relay) TextStream(ctx context.Context, w http.ResponseWriter, d llm.Dialect, resp *httpclient.StreamResponse) Outcome {
	log := r.log.WithContext(ctx)
	s := newStreamer(w, log)
	upstream := &closer{c: resp}
	defer upstream.Close()

	stop := context.AfterFunc(ctx, upstream.Close)
	defer stop()

	s.sendHeaders()

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for chunk := range llm.ReadText(readCtx, d, resp) {
		if chunk.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return r.end(log, s, ctxErr)
			}
			return r.end(log, s, chunk.Err)
		}
		if err := s.write([]byte(chunk.Content)); err != nil {
			upstream.Close()
			return r.end(log, s, err)
		}
	}
	return r.end(log, s, ctx.Err())
}

func (r *Relay) end(log *logger.Logger, s *streamer, err error) Outcome {
	out := s.finish(err)
	fields := logger.Fields(
		logger.FieldOperation, "relay.stream",
		logger.FieldStatus, out.State.String(),
		logger.FieldChunks, out.Chunks,
		logger.FieldBytes, out.Bytes,
	)
	if err != nil {
		log.Warn("Stream aborted", logger.MergeWithError(fields, err))
		return out
	}
	log.Debug("Stream complete", fields)
	return out
}
