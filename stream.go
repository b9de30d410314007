package wasmresource

import (
	"bytes"
	"io"
	"sync/atomic"

	"github.com/wippyai/wasm-resource/errors"
)

// ErrClosed is returned by Stream operations after Close.
var ErrClosed = errors.Closed("stream")

// Stream is an io.ReadSeekCloser over an in-memory resource payload.
// The payload is shared, not copied; a Stream never mutates it.
type Stream struct {
	r      *bytes.Reader
	closed atomic.Bool
}

var _ io.ReadSeekCloser = (*Stream)(nil)

// NewStream returns a Stream positioned at the start of data.
func NewStream(data []byte) *Stream {
	return &Stream{r: bytes.NewReader(data)}
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	return s.r.Read(p)
}

// Seek implements io.Seeker.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	return s.r.Seek(offset, whence)
}

// WriteTo implements io.WriterTo so io.Copy and io.ReadAll avoid
// intermediate buffers.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	return s.r.WriteTo(w)
}

// Size returns the total payload length.
func (s *Stream) Size() int64 {
	return s.r.Size()
}

// Close releases the stream. Closing twice is a no-op.
func (s *Stream) Close() error {
	s.closed.Store(true)
	return nil
}
