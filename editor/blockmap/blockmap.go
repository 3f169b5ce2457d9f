// Package blockmap builds AppxBlockMap.xml (component E): a per-entry
// list of 64 KiB uncompressed-content blocks, each annotated with its
// SHA-256 hash and, for deflated entries, its compressed byte length.
//
// The XML is hand-assembled with a strings.Builder rather than
// encoding/xml so that attribute order and formatting are exactly
// reproducible (spec.md §8 property 7), the same reasoning
// _examples/original_source/Sources/XML.cpp applies with its own
// hand-rolled escaping.
package blockmap

import (
	"encoding/base64"
	"fmt"
	"strings"

	"appxpack/editor/names"
)

// BlockSize is the uncompressed-content granularity a block covers.
const BlockSize = 65536

const (
	namespace  = "http://schemas.microsoft.com/appx/2010/blockmap"
	hashMethod = "http://www.w3.org/2001/04/xmlenc#sha256"
)

// Block describes one 64 KiB uncompressed slice of an entry's content.
type Block struct {
	Hash [32]byte
	// CompressedSize is meaningful only when the owning File is Deflated.
	CompressedSize int64
}

// File describes one non-signature archive entry for the block map.
type File struct {
	ArchiveName string
	Size        int64 // uncompressed size
	Deflated    bool
	Blocks      []Block
}

// Builder accumulates Files in the order they are added and renders the
// final AppxBlockMap.xml document.
type Builder struct {
	files []File
}

// NewBuilder returns an empty block-map builder.
func NewBuilder() *Builder { return &Builder{} }

// Add records one entry's block list. Call once per non-signature entry,
// in the order entries were written to the ZIP.
func (b *Builder) Add(f File) {
	b.files = append(b.files, f)
}

// Render produces the complete AppxBlockMap.xml document as bytes.
func (b *Builder) Render() []byte {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	fmt.Fprintf(&sb, `<BlockMap xmlns="%s" HashMethod="%s">`+"\n", namespace, hashMethod)
	for _, f := range b.files {
		name := xmlEscape(names.BlockMapName(f.ArchiveName))
		if len(f.Blocks) == 0 {
			fmt.Fprintf(&sb, `  <File Name="%s" Size="%d" />`+"\n", name, f.Size)
			continue
		}
		fmt.Fprintf(&sb, `  <File Name="%s" Size="%d">`+"\n", name, f.Size)
		for _, blk := range f.Blocks {
			hash := base64.StdEncoding.EncodeToString(blk.Hash[:])
			if f.Deflated {
				fmt.Fprintf(&sb, `    <Block Hash="%s" Size="%d" />`+"\n", hash, blk.CompressedSize)
			} else {
				fmt.Fprintf(&sb, `    <Block Hash="%s" />`+"\n", hash)
			}
		}
		sb.WriteString("  </File>\n")
	}
	sb.WriteString("</BlockMap>\n")
	return []byte(sb.String())
}

func xmlEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
