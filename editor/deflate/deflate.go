// Package deflate implements the streaming raw-deflate encoder
// (component C). It reports compressed/uncompressed byte counts and a
// running CRC-32 the way the ZIP entry writer needs them, and supports
// flushing the underlying deflate bitstream to a byte boundary on
// demand so the block-map builder can attribute compressed lengths to
// fixed-size uncompressed slices.
//
// The sync-flush technique mirrors the boundary bookkeeping in
// philipaconrad/gzipstreamwriter, adapted here to raw deflate (no
// gzip/zlib framing) via klauspost/compress/flate.
package deflate

import (
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"

	"appxpack/editor/sink"
)

// Method identifies a ZIP compression method.
type Method uint16

const (
	Store   Method = 0
	Deflate Method = 8
)

// BlockSize is the uncompressed-content granularity (spec.md §3) at which
// the block-map builder wants compressed-length boundaries.
const BlockSize = 65536

// Streamer writes uncompressed bytes through to w, compressing them with
// the requested method/level, and tracks CRC-32 plus byte counts. Level is
// ignored when method is Store.
type Streamer struct {
	method Method
	out    *sink.CountingSink
	fw     *flate.Writer
	crc    uint32

	uncompressed    int64
	lastFlushOffset int64
	closed          bool
}

// NewStreamer creates a streamer writing compressed output to w.
func NewStreamer(w io.Writer, method Method, level int) (*Streamer, error) {
	s := &Streamer{method: method, out: sink.NewCountingSink(w)}
	if method == Deflate {
		fw, err := flate.NewWriter(s.out, level)
		if err != nil {
			return nil, err
		}
		s.fw = fw
	}
	return s, nil
}

// Write feeds uncompressed bytes into the stream.
func (s *Streamer) Write(p []byte) (int, error) {
	s.crc = crc32.Update(s.crc, crc32.IEEETable, p)
	s.uncompressed += int64(len(p))
	if s.method == Store {
		return s.out.Write(p)
	}
	return s.fw.Write(p)
}

// FlushBoundary terminates the current deflate block on a byte boundary
// (a no-op for Store) and returns the number of compressed bytes emitted
// since the previous boundary (or since the stream began).
func (s *Streamer) FlushBoundary() (int64, error) {
	if s.method == Deflate {
		if err := s.fw.Flush(); err != nil {
			return 0, err
		}
	}
	n := s.out.Offset() - s.lastFlushOffset
	s.lastFlushOffset = s.out.Offset()
	return n, nil
}

// Close emits the final deflate block, if any. It is a no-op for Store.
func (s *Streamer) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.method == Deflate {
		return s.fw.Close()
	}
	return nil
}

// CRC32 returns the CRC-32/ISO-HDLC of all bytes written so far.
func (s *Streamer) CRC32() uint32 { return s.crc }

// UncompressedSize returns the total number of uncompressed bytes written.
func (s *Streamer) UncompressedSize() int64 { return s.uncompressed }

// CompressedSize returns the total number of compressed bytes emitted to
// the underlying writer so far.
func (s *Streamer) CompressedSize() int64 { return s.out.Offset() }
