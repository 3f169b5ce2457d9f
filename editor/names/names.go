// Package names implements archive-name sanitization and the name helpers
// shared by the orchestrator, the block-map builder, and the content-types builder
// (spec.md §3, invariant 4). It is grounded on the whitelist-and-percent-
// encode scheme in _examples/original_source/Sources/ZIP.cpp
// (ZIPFileEntry::SanitizedFileName).
package names

import "strings"

// contentTypesFile is exempt from percent-encoding: the literal brackets
// in its name must survive untouched or the resulting APPX is invalid.
const contentTypesFile = "[Content_Types].xml"

func isWhitelisted(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~' || c == '/':
		return true
	default:
		return false
	}
}

const hexDigits = "0123456789ABCDEF"

// Sanitize percent-encodes every byte of name outside the
// [A-Za-z0-9-._~/] whitelist, uppercase hex, except for the literal
// "[Content_Types].xml" which passes through unmodified.
func Sanitize(name string) string {
	if name == contentTypesFile {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isWhitelisted(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

// Extension returns the lowercase filename extension (without the dot) of
// the given archive name, or "" if the name has none.
func Extension(archiveName string) string {
	base := archiveName
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 || dot == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[dot+1:])
}

// BlockMapName converts an archive name's forward slashes to backslashes,
// as AppxBlockMap.xml's File/@Name attribute requires.
func BlockMapName(archiveName string) string {
	return strings.ReplaceAll(archiveName, "/", "\\")
}
