package zipw

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"hash"
	"io"

	"appxpack/editor/blockmap"
	"appxpack/editor/deflate"
)

// Descriptor is the finished metadata for one written entry, handed back
// to the orchestrator so it can feed the block-map and content-types
// builders (spec.md §3 "Entry descriptor").
type Descriptor struct {
	Name             string
	UncompressedSize int64
	CompressedSize   int64
	CRC32            uint32
	Method           Method
	Blocks           []blockmap.Block
}

// EntryWriter is the io.Writer callers stream one entry's uncompressed
// content into. Call Close when done; Write must not be called afterward.
type EntryWriter struct {
	w             *Writer
	name          string
	method        Method
	externalAttrs uint32
	entryTee      io.Writer

	streamer    *deflate.Streamer
	contentBuf  *bytes.Buffer
	blockHash   hash.Hash
	blockFilled int
	blocks      []blockmap.Block
	wroteAny    bool

	closed bool
}

func newEntryWriter(w *Writer, name string, method Method, level int, externalAttrs uint32, entryTee io.Writer) (*EntryWriter, error) {
	buf := &bytes.Buffer{}
	streamer, err := deflate.NewStreamer(buf, deflate.Method(method), level)
	if err != nil {
		return nil, err
	}
	return &EntryWriter{
		w:             w,
		name:          name,
		method:        method,
		externalAttrs: externalAttrs,
		entryTee:      entryTee,
		streamer:      streamer,
		contentBuf:    buf,
		blockHash:     sha256.New(),
	}, nil
}

// Write feeds uncompressed entry content through the per-block hasher and
// the deflate streamer, flushing a block-map block every 64 KiB.
func (ew *EntryWriter) Write(p []byte) (int, error) {
	if ew.closed {
		return 0, errors.New("zipw: write to closed entry")
	}
	total := len(p)
	if total > 0 {
		ew.wroteAny = true
	}
	for len(p) > 0 {
		remain := blockmap.BlockSize - ew.blockFilled
		chunk := p
		if len(chunk) > remain {
			chunk = chunk[:remain]
		}
		ew.blockHash.Write(chunk)
		if _, err := ew.streamer.Write(chunk); err != nil {
			return 0, err
		}
		ew.blockFilled += len(chunk)
		if ew.blockFilled == blockmap.BlockSize {
			if err := ew.flushBlock(); err != nil {
				return 0, err
			}
		}
		p = p[len(chunk):]
	}
	return total, nil
}

func (ew *EntryWriter) flushBlock() error {
	compSize, err := ew.streamer.FlushBoundary()
	if err != nil {
		return err
	}
	var h [32]byte
	copy(h[:], ew.blockHash.Sum(nil))
	ew.blocks = append(ew.blocks, blockmap.Block{Hash: h, CompressedSize: compSize})
	ew.blockHash.Reset()
	ew.blockFilled = 0
	return nil
}

// Close finalizes the entry: it flushes any trailing partial block, closes
// the deflate stream, writes the local file header (with the now-known
// sizes/CRC) and content to the archive, and appends a central-directory
// record for the entry.
func (ew *EntryWriter) Close() (Descriptor, error) {
	if ew.closed {
		return Descriptor{}, errors.New("zipw: entry closed twice")
	}
	ew.closed = true

	var uncompSize, compSize int64
	var crc uint32

	if ew.wroteAny {
		if ew.blockFilled > 0 {
			if err := ew.flushBlock(); err != nil {
				return Descriptor{}, err
			}
		}
		if err := ew.streamer.Close(); err != nil {
			return Descriptor{}, err
		}
		uncompSize = ew.streamer.UncompressedSize()
		compSize = ew.streamer.CompressedSize()
		crc = ew.streamer.CRC32()
	}

	localOffset := ew.w.offset.Offset()
	header := buildLocalHeader(ew.name, uint16(ew.method), crc, compSize, uncompSize)

	var dst io.Writer = ew.w.offset
	if ew.entryTee != nil {
		dst = io.MultiWriter(ew.w.offset, ew.entryTee)
	}
	if _, err := dst.Write(header); err != nil {
		return Descriptor{}, err
	}
	if compSize > 0 {
		if _, err := dst.Write(ew.contentBuf.Bytes()); err != nil {
			return Descriptor{}, err
		}
	}

	rec := &centralRecord{
		name:              ew.name,
		method:            uint16(ew.method),
		crc32:             crc,
		compressedSize:    uint64(compSize),
		uncompressedSize:  uint64(uncompSize),
		localHeaderOffset: uint64(localOffset),
		externalAttrs:     ew.externalAttrs,
	}
	ew.w.dir = append(ew.w.dir, rec)
	ew.w.names[ew.name] = len(ew.w.dir) - 1

	return Descriptor{
		Name:             ew.name,
		UncompressedSize: uncompSize,
		CompressedSize:   compSize,
		CRC32:            crc,
		Method:           ew.method,
		Blocks:           ew.blocks,
	}, nil
}

func buildLocalHeader(name string, method uint16, crc uint32, compSize, uncompSize int64) []byte {
	needsZip64 := compSize >= uint32max || uncompSize >= uint32max
	readerVersion := uint16(zipVersion20)
	var extra []byte
	var compField, uncompField uint32
	if needsZip64 {
		readerVersion = zipVersion45
		compField, uncompField = uint32max, uint32max
		var zbuf [20]byte // 2x uint16 + 2x uint64
		zb := writeBuf(zbuf[:])
		zb.uint16(zip64ExtraID)
		zb.uint16(16)
		zb.uint64(uint64(uncompSize))
		zb.uint64(uint64(compSize))
		extra = zbuf[:]
	} else {
		compField, uncompField = uint32(compSize), uint32(uncompSize)
	}

	var buf [fileHeaderLen]byte
	b := writeBuf(buf[:])
	b.uint32(fileHeaderSignature)
	b.uint16(readerVersion)
	b.uint16(flagUTF8)
	b.uint16(method)
	b.uint16(0) // mod time: determinism is not required across runs
	b.uint16(0) // mod date
	b.uint32(crc)
	b.uint32(compField)
	b.uint32(uncompField)
	b.uint16(uint16(len(name)))
	b.uint16(uint16(len(extra)))

	out := make([]byte, 0, fileHeaderLen+len(name)+len(extra))
	out = append(out, buf[:]...)
	out = append(out, name...)
	out = append(out, extra...)
	return out
}
