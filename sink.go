package rjson

import "io"

// Sink is a write-only target for emitted bytes. It mirrors the teacher's
// ini_emitter_t output-handler split (apic.go's
// ini_emitter_set_output_string / ini_emitter_set_output_file) generalized
// to a single interface with two concrete implementations.
type Sink interface {
	// write appends p, returning the number of bytes actually stored
	// (which may be less than len(p) for a bounded sink) and any
	// fatal error from an underlying writer.
	write(p []byte) (stored int, err error)
}

// bufferSink is a fixed-capacity memory sink. Writes beyond capacity are
// counted but not stored, the same truncate-and-keep-counting discipline as
// C's snprintf: the caller learns the full required size from Printf's
// return value even when the buffer was too small.
type bufferSink struct {
	buf  []byte
	used int
}

// NewBufferSink returns a Sink backed by a fixed-capacity buffer. Used
// reports how many bytes have actually been stored so far; it saturates at
// len(buf).
func NewBufferSink(buf []byte) *BufferSink {
	return &BufferSink{inner: &bufferSink{buf: buf}}
}

// BufferSink is the exported handle for NewBufferSink, separate from the
// unexported bufferSink so that Used/Bytes can be read back after emission
// without exposing the write method itself.
type BufferSink struct {
	inner *bufferSink
}

func (s *BufferSink) write(p []byte) (int, error) { return s.inner.write(p) }

// Used returns the number of bytes actually stored in the backing buffer.
func (s *BufferSink) Used() int { return s.inner.used }

// Bytes returns the stored prefix of the backing buffer.
func (s *BufferSink) Bytes() []byte { return s.inner.buf[:s.inner.used] }

func (b *bufferSink) write(p []byte) (int, error) {
	room := len(b.buf) - b.used
	if room < 0 {
		room = 0
	}
	n := len(p)
	if n > room {
		n = room
	}
	copy(b.buf[b.used:b.used+n], p[:n])
	b.used += n
	return n, nil
}

// GrowingSink is an unbounded, heap-backed sink: everything written is kept.
// Used for Sprintf and similar convenience entry points where the caller
// does not want to pre-size a buffer.
type GrowingSink struct {
	buf []byte
}

func (s *GrowingSink) write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Bytes returns everything written so far.
func (s *GrowingSink) Bytes() []byte { return s.buf }

func (s *GrowingSink) String() string { return string(s.buf) }

// fileSink is an append-only stream sink, the Sink analogue of
// ini_file_write_handler in the teacher's apic.go. A write failure from the
// underlying writer is not signaled mid-stream (per spec.md §4.B): it is
// recorded and surfaces once, as a fatal error, from the emitter's return.
type fileSink struct {
	w       io.Writer
	err     error
	written int
}

// NewFileSink wraps an io.Writer as an append-only Sink.
func NewFileSink(w io.Writer) Sink {
	return &fileSink{w: w}
}

func (f *fileSink) write(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.w.Write(p)
	f.written += n
	if err != nil {
		f.err = err
		return n, err
	}
	return n, nil
}
