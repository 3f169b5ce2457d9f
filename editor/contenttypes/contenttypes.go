// Package contenttypes builds [Content_Types].xml (component F): one
// Default element per distinct filename extension observed among
// entries, plus the fixed overrides APPX readers require.
package contenttypes

import (
	"fmt"
	"sort"
	"strings"

	"appxpack/editor/names"
)

const namespace = "http://schemas.openxmlformats.org/package/2006/content-types"

const defaultContentType = "application/octet-stream"

// extensionTypes is the fixed extension-to-MIME-type table (spec.md §4.F).
var extensionTypes = map[string]string{
	"xml": "application/vnd.ms-appx.manifest+xml",
	"png": "image/png",
	"dll": "application/x-msdownload",
	"exe": "application/x-msdownload",
}

// overrides is the fixed set of per-name content-type overrides required
// regardless of extension.
var overrides = map[string]string{
	"AppxBlockMap.xml":                   "application/vnd.ms-appx.blockmap+xml",
	"AppxSignature.p7x":                  "application/vnd.ms-appx.signature",
	"AppxManifest.xml":                   "application/vnd.ms-appx.manifest+xml",
	"AppxMetadata/AppxBundleManifest.xml": "application/vnd.ms-appx.bundlemanifest+xml",
}

// Builder accumulates archive names and renders [Content_Types].xml.
type Builder struct {
	names     []string
	overrides map[string]string
}

// NewBuilder returns an empty content-types builder.
func NewBuilder() *Builder {
	return &Builder{overrides: overrides}
}

// Add records one archive entry's name, to be classified by extension
// unless it matches a fixed override.
func (b *Builder) Add(archiveName string) {
	b.names = append(b.names, archiveName)
}

// contentTypeFor returns the MIME type for an archive name.
func (b *Builder) contentTypeFor(archiveName string) string {
	if ct, ok := b.overrides[archiveName]; ok {
		return ct
	}
	ext := names.Extension(archiveName)
	if ct, ok := extensionTypes[ext]; ok {
		return ct
	}
	return defaultContentType
}

// Render produces the complete [Content_Types].xml document as bytes.
// Extensions are emitted in sorted order for determinism (spec.md §8
// property 7).
func (b *Builder) Render() []byte {
	extSet := map[string]string{}
	for _, n := range b.names {
		ext := names.Extension(n)
		if _, overridden := b.overrides[n]; overridden {
			continue
		}
		if _, ok := extSet[ext]; !ok {
			extSet[ext] = b.contentTypeFor(n)
		}
	}

	exts := make([]string, 0, len(extSet))
	for ext := range extSet {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	fmt.Fprintf(&sb, `<Types xmlns="%s">`+"\n", namespace)
	for _, ext := range exts {
		fmt.Fprintf(&sb, `  <Default Extension="%s" ContentType="%s" />`+"\n", ext, extSet[ext])
	}

	usedOverrides := map[string]bool{}
	for _, n := range b.names {
		if ct, ok := b.overrides[n]; ok && !usedOverrides[n] {
			usedOverrides[n] = true
			fmt.Fprintf(&sb, `  <Override PartName="/%s" ContentType="%s" />`+"\n", n, ct)
		}
	}
	sb.WriteString("</Types>\n")
	return []byte(sb.String())
}
