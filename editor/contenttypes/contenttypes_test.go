package contenttypes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"appxpack/editor/contenttypes"
)

func TestRenderDefaultsAndOverrides(t *testing.T) {
	b := contenttypes.NewBuilder()
	b.Add("hello.txt")
	b.Add("AppxManifest.xml")
	b.Add("AppxBlockMap.xml")
	b.Add("assets/icon.png")

	xml := string(b.Render())
	require.Contains(t, xml, `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	require.Contains(t, xml, `<Default Extension="png" ContentType="image/png" />`)
	require.Contains(t, xml, `<Default Extension="txt" ContentType="application/octet-stream" />`)
	require.Contains(t, xml, `<Override PartName="/AppxManifest.xml" ContentType="application/vnd.ms-appx.manifest+xml" />`)
	require.Contains(t, xml, `<Override PartName="/AppxBlockMap.xml" ContentType="application/vnd.ms-appx.blockmap+xml" />`)
	require.NotContains(t, xml, `Extension="xml"`)
}

func TestUnknownExtensionFallsBackToOctetStream(t *testing.T) {
	b := contenttypes.NewBuilder()
	b.Add("weird.unknownext")

	xml := string(b.Render())
	require.Contains(t, xml, `<Default Extension="unknownext" ContentType="application/octet-stream" />`)
}
