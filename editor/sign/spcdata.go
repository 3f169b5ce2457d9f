package sign

import "encoding/asn1"

// OIDs used by the Authenticode-style SpcIndirectDataContext wrapper
// (spec.md §4.H, GLOSSARY "SpcIndirectDataContext").
var (
	OIDSpcIndirectDataContext = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 1, 4}
	oidSpcSipInfo             = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 1, 30}
	oidSHA256                 = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}
)

type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.RawValue `asn1:"optional"`
}

type digestInfo struct {
	DigestAlgorithm algorithmIdentifier
	Digest          []byte
}

type spcAttributeTypeAndOptionalValue struct {
	Type  asn1.ObjectIdentifier
	Value asn1.RawValue `asn1:"optional"`
}

type spcIndirectDataContent struct {
	Data          spcAttributeTypeAndOptionalValue
	MessageDigest digestInfo
}

// buildIndirectData DER-encodes the SpcIndirectDataContent wrapping the
// SHA-256 digest of the 184-byte footprint block: this is the content
// the PKCS#7 SignedData carries under the SpcIndirectDataContext OID.
func buildIndirectData(footprintDigest [32]byte) ([]byte, error) {
	content := spcIndirectDataContent{
		Data: spcAttributeTypeAndOptionalValue{Type: oidSpcSipInfo},
		MessageDigest: digestInfo{
			DigestAlgorithm: algorithmIdentifier{Algorithm: oidSHA256},
			Digest:          footprintDigest[:],
		},
	}
	return asn1.Marshal(content)
}
