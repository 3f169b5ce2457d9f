// Package sink provides the write-through byte sinks shared across the
// writer pipeline: a SHA-256 hashing sink (component A) and a
// monotonic byte-offset counting sink (component B). Both are plain
// io.Writer implementations so several can be composed with
// io.MultiWriter when the same bytes must feed more than one
// accumulator at once (e.g. the real output file and a footprint
// digest).
package sink

import (
	"crypto/sha256"
	"hash"
	"io"
)

// HashingSink computes the SHA-256 digest of everything written to it,
// forwarding the bytes unchanged to an optional downstream writer. A nil
// downstream makes it a pure accumulator.
type HashingSink struct {
	down io.Writer
	h    hash.Hash
}

// NewHashingSink creates a hashing sink. down may be nil.
func NewHashingSink(down io.Writer) *HashingSink {
	return &HashingSink{down: down, h: sha256.New()}
}

func (s *HashingSink) Write(p []byte) (int, error) {
	s.h.Write(p)
	if s.down == nil {
		return len(p), nil
	}
	return s.down.Write(p)
}

// Finalize returns the 32-byte SHA-256 digest of everything written so far.
// It does not reset the underlying hash.
func (s *HashingSink) Finalize() [32]byte {
	var out [32]byte
	copy(out[:], s.h.Sum(nil))
	return out
}

// CountingSink tracks the number of bytes written to it, forwarding them
// unchanged to the underlying writer. Used to record absolute offsets
// (local-header offsets, central-directory offsets).
type CountingSink struct {
	w     io.Writer
	count int64
}

// NewCountingSink wraps w with an offset counter starting at zero.
func NewCountingSink(w io.Writer) *CountingSink {
	return &CountingSink{w: w}
}

func (s *CountingSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.count += int64(n)
	return n, err
}

// Offset returns the number of bytes written so far.
func (s *CountingSink) Offset() int64 { return s.count }

// ZeroDigest is the all-zero 32-byte digest used by the orchestrator when
// an optional digested entry (AppxMetadata/CodeIntegrity.cat) is absent.
var ZeroDigest [32]byte
