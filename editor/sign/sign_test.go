package sign_test

import (
	"encoding/asn1"
	"testing"

	"github.com/smallstep/pkcs7"
	"github.com/stretchr/testify/require"

	"appxpack/editor/sign"
)

// indirectDataContent mirrors the unexported spcIndirectDataContent ASN.1
// shape in editor/sign/spcdata.go, just enough to decode the digest back
// out of a parsed SignedData's embedded content.
type indirectDataContent struct {
	Data struct {
		Type  asn1.ObjectIdentifier
		Value asn1.RawValue `asn1:"optional"`
	}
	MessageDigest struct {
		DigestAlgorithm struct {
			Algorithm  asn1.ObjectIdentifier
			Parameters asn1.RawValue `asn1:"optional"`
		}
		Digest []byte
	}
}

func TestSignFramesPKCXMagicAndWrapsFootprintDigest(t *testing.T) {
	key, cert := selfSignedCert(t, "Test Package Signer", false)
	identity := &sign.SigningIdentity{Key: key, Certificate: cert}

	footprint := sign.Footprint{}
	for i := range footprint.AXPC {
		footprint.AXPC[i] = byte(i)
	}

	blob, err := sign.Sign(identity, footprint)
	require.NoError(t, err)
	require.True(t, len(blob) > 4)
	require.Equal(t, "PKCX", string(blob[:4]))

	p7, err := pkcs7.Parse(blob[4:])
	require.NoError(t, err)
	require.True(t, p7.GetOnlySigner().Equal(cert))

	var decoded indirectDataContent
	_, err = asn1.Unmarshal(p7.Content, &decoded)
	require.NoError(t, err)

	wantDigest := footprint.Digest()
	require.Equal(t, wantDigest[:], decoded.MessageDigest.Digest)
}
