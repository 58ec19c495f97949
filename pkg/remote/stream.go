package remote

import (
	"io"
	"sync"
)

// ChunkSource is a non-blocking byte source. TryRead returns (nil, nil) when
// no data is available yet and a non-nil error once the source has ended.
type ChunkSource interface {
	TryRead() ([]byte, error)
}

// Stream turns a blocking reader into a ChunkSource by pumping it from a
// background goroutine.
type Stream struct {
	chunks chan []byte
	done   chan struct{}
	quit   chan struct{}
	once   sync.Once
	err    error
}

// NewStream starts pumping r. Close must be called to release the pump if the
// reader may outlive the caller's interest in it.
func NewStream(r io.Reader) *Stream {
	s := &Stream{
		chunks: make(chan []byte, 64),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}
	go s.pump(r)
	return s
}

func (s *Stream) pump(r io.Reader) {
	defer close(s.done)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.quit:
				s.err = io.ErrClosedPipe
				return
			}
		}
		if err != nil {
			s.err = err
			return
		}
	}
}

// TryRead returns the next pending chunk without blocking.
func (s *Stream) TryRead() ([]byte, error) {
	select {
	case chunk := <-s.chunks:
		return chunk, nil
	default:
	}
	select {
	case chunk := <-s.chunks:
		return chunk, nil
	case <-s.done:
		// drain anything queued before the pump stopped
		select {
		case chunk := <-s.chunks:
			return chunk, nil
		default:
		}
		return nil, s.err
	default:
		return nil, nil
	}
}

// Done is closed once the underlying reader has ended.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Close stops the pump from delivering further chunks.
func (s *Stream) Close() {
	s.once.Do(func() { close(s.quit) })
}
