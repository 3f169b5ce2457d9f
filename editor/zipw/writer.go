// Package zipw implements the streaming ZIP entry writer (component D)
// and central-directory writer (component I). It is grounded on
// _examples/Mr-XiaoLei-apk-editor/editor/zip/writer.go (the teacher),
// generalized here to the spec's buffer-then-patch header policy
// (spec.md §9 Open Question): local headers are emitted only once an
// entry's final sizes/CRC are known, so general-purpose bit 3 (data
// descriptor present) is never set.
package zipw

import (
	"errors"
	"io"

	"appxpack/editor/sink"
)

// Writer owns the physical output stream and the absolute byte-offset
// counter every entry's local-header offset is measured against.
type Writer struct {
	offset *sink.CountingSink
	dir    []*centralRecord
	names  map[string]int
	closed bool
}

// NewWriter wraps out, the real archive output.
func NewWriter(out io.Writer) *Writer {
	return &Writer{
		offset: sink.NewCountingSink(out),
		names:  map[string]int{},
	}
}

// Offset returns the current absolute byte offset into the archive.
func (w *Writer) Offset() int64 { return w.offset.Offset() }

// CreateEntry begins writing a new archive entry named name, compressed
// with method/level, with the given central-directory external
// attributes. entryTee, if non-nil, additionally receives the exact
// bytes of this entry's local file record (header+content) as they are
// written — the orchestrator uses this to accumulate the axpc footprint
// digest over non-signature entries only.
func (w *Writer) CreateEntry(name string, method Method, level int, externalAttrs uint32, entryTee io.Writer) (*EntryWriter, error) {
	if w.closed {
		return nil, errors.New("zipw: writer closed")
	}
	if _, exists := w.names[name]; exists {
		return nil, errors.New("zipw: duplicate entry name " + name)
	}
	return newEntryWriter(w, name, method, level, externalAttrs, entryTee)
}

// BuildCentralDirectory renders the central-directory records for every
// entry created so far, in creation order, without writing them to the
// output. Callers hash the returned bytes to accumulate axcd before
// physically emitting them (plus any later entries' records, e.g. the
// signature entry's) via WriteCentralDirectory.
func (w *Writer) BuildCentralDirectory() []byte {
	var out []byte
	for _, rec := range w.dir {
		out = append(out, rec.render()...)
	}
	return out
}

// CentralRecordBytes renders the central-directory record for the entry
// at the given index (0-based, in creation order).
func (w *Writer) CentralRecordBytes(index int) ([]byte, error) {
	if index < 0 || index >= len(w.dir) {
		return nil, errors.New("zipw: central record index out of range")
	}
	return w.dir[index].render(), nil
}

// EntryCount returns the number of entries created so far.
func (w *Writer) EntryCount() int { return len(w.dir) }

// WriteCentralDirectory physically writes cdBytes (as produced by
// BuildCentralDirectory, with any further entries' records appended)
// followed by the end-of-central-directory record, and closes the
// writer. It returns the absolute start offset and byte length of the
// central directory that was written.
func (w *Writer) WriteCentralDirectory(cdBytes []byte) (start, size int64, err error) {
	if w.closed {
		return 0, 0, errors.New("zipw: writer closed twice")
	}
	w.closed = true

	start = w.offset.Offset()
	if _, err := w.offset.Write(cdBytes); err != nil {
		return 0, 0, err
	}
	end := w.offset.Offset()
	size = end - start

	records := uint64(len(w.dir))
	offset := uint64(start)

	if records > uint16max || uint64(size) > uint32max || offset > uint32max {
		var buf [directory64EndLen + directory64LocLen]byte
		b := writeBuf(buf[:])

		b.uint32(directory64EndSignature)
		b.uint64(directory64EndLen - 12)
		b.uint16(zipVersion45)
		b.uint16(zipVersion45)
		b.uint32(0)
		b.uint32(0)
		b.uint64(records)
		b.uint64(records)
		b.uint64(uint64(size))
		b.uint64(offset)

		b.uint32(directory64LocSignature)
		b.uint32(0)
		b.uint64(uint64(end))
		b.uint32(1)

		if _, err := w.offset.Write(buf[:]); err != nil {
			return 0, 0, err
		}

		records = uint16max
		size = int64(uint32max)
		offset = uint32max
	}

	var buf [directoryEndLen]byte
	b := writeBuf(buf[:])
	b.uint32(directoryEndSignature)
	b.uint16(0) // disk number
	b.uint16(0) // disk with start of CD
	b.uint16(uint16(records))
	b.uint16(uint16(records))
	b.uint32(uint32(size))
	b.uint32(uint32(offset))
	b.uint16(0) // comment length
	_, err = w.offset.Write(buf[:])
	return start, size, err
}
