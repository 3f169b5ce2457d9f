package mapfile_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"appxpack/editor/apperr"
	"appxpack/internal/mapfile"
)

func TestParseValidMapping(t *testing.T) {
	input := "[Files]\n" +
		`"a/b.txt" "x y.txt"` + "\n" +
		`  "/abs/path/icon.png"   "assets/icon.png"  ` + "\n"

	entries, err := mapfile.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "a/b.txt", entries[0].SourcePath)
	require.Equal(t, "x y.txt", entries[0].ArchiveName)
	require.Equal(t, "/abs/path/icon.png", entries[1].SourcePath)
	require.Equal(t, "assets/icon.png", entries[1].ArchiveName)
}

func TestParseIgnoresBlankLines(t *testing.T) {
	input := "\n[Files]\n\n" + `"a" "b"` + "\n\n"
	entries, err := mapfile.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestParseMissingHeaderFails(t *testing.T) {
	_, err := mapfile.Parse(strings.NewReader(`"a" "b"` + "\n"))
	require.Error(t, err)
	var target *apperr.Error
	require.True(t, errors.As(err, &target))
	require.Equal(t, apperr.MalformedInput, target.Kind)
	require.Equal(t, 1, target.Line)
}

func TestParseTrailingGarbageFails(t *testing.T) {
	input := "[Files]\n" + `"a" "b" extra` + "\n"
	_, err := mapfile.Parse(strings.NewReader(input))
	require.Error(t, err)
}

func TestParseEmptyLocalPathFails(t *testing.T) {
	input := "[Files]\n" + `"" "b"` + "\n"
	_, err := mapfile.Parse(strings.NewReader(input))
	require.Error(t, err)
}

func TestParseMissingClosingQuoteFails(t *testing.T) {
	input := "[Files]\n" + `"a "b"` + "\n"
	_, err := mapfile.Parse(strings.NewReader(input))
	require.Error(t, err)
}
