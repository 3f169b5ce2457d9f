package blockmap_test

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"appxpack/editor/blockmap"
)

func TestRenderStoredEntry(t *testing.T) {
	b := blockmap.NewBuilder()
	hash := sha256.Sum256([]byte("hi\n"))
	b.Add(blockmap.File{
		ArchiveName: "hello.txt",
		Size:        3,
		Deflated:    false,
		Blocks:      []blockmap.Block{{Hash: hash}},
	})

	xml := string(b.Render())
	require.Contains(t, xml, `<BlockMap xmlns="http://schemas.microsoft.com/appx/2010/blockmap" HashMethod="http://www.w3.org/2001/04/xmlenc#sha256">`)
	require.Contains(t, xml, `<File Name="hello.txt" Size="3">`)
	require.Contains(t, xml, `<Block Hash="`)
	require.Regexp(t, `<Block Hash="[^"]+" />`, xml)
}

func TestRenderDeflatedEntryHasBlockSize(t *testing.T) {
	b := blockmap.NewBuilder()
	hash := sha256.Sum256([]byte("payload"))
	b.Add(blockmap.File{
		ArchiveName: "a/b.bin",
		Size:        7,
		Deflated:    true,
		Blocks:      []blockmap.Block{{Hash: hash, CompressedSize: 5}},
	})

	xml := string(b.Render())
	require.Contains(t, xml, `Name="a\b.bin"`)
	require.Contains(t, xml, `<Block Hash="`)
	require.Contains(t, xml, `Size="5"`)
}

func TestRenderEmptyFile(t *testing.T) {
	b := blockmap.NewBuilder()
	b.Add(blockmap.File{ArchiveName: "empty.txt", Size: 0})

	xml := string(b.Render())
	require.True(t, strings.Contains(xml, `<File Name="empty.txt" Size="0" />`))
	require.False(t, strings.Contains(xml, "<Block"))
}
