package names_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"appxpack/editor/names"
)

func TestSanitize(t *testing.T) {
	require.Equal(t, "x%20y.txt", names.Sanitize("x y.txt"))
	require.Equal(t, "a/b-c_d~e.f", names.Sanitize("a/b-c_d~e.f"))
	require.Equal(t, "[Content_Types].xml", names.Sanitize("[Content_Types].xml"))
	require.Equal(t, "%5Bfoo%5D.xml", names.Sanitize("[foo].xml"))
}

func TestExtension(t *testing.T) {
	require.Equal(t, "xml", names.Extension("AppxManifest.xml"))
	require.Equal(t, "xml", names.Extension("dir/sub/Manifest.XML"))
	require.Equal(t, "", names.Extension("Makefile"))
	require.Equal(t, "", names.Extension("trailingdot."))
}

func TestBlockMapName(t *testing.T) {
	require.Equal(t, `assets\icon.png`, names.BlockMapName("assets/icon.png"))
}
