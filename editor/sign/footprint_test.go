package sign

import (
	"bytes"
	"crypto/sha256"
	"encoding/asn1"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFootprintBlockLayout(t *testing.T) {
	f := Footprint{}
	for i := range f.AXPC {
		f.AXPC[i] = 1
		f.AXCD[i] = 2
		f.AXCT[i] = 3
		f.AXBM[i] = 4
		f.AXCI[i] = 5
	}

	block := f.Block()
	require.Len(t, block, footprintBlockLen)
	require.True(t, bytes.HasPrefix(block, []byte("APPX")))

	require.Equal(t, "AXPC", string(block[4:8]))
	require.Equal(t, f.AXPC[:], block[8:40])
	require.Equal(t, "AXCD", string(block[40:44]))
	require.Equal(t, f.AXCD[:], block[44:76])
	require.Equal(t, "AXCT", string(block[76:80]))
	require.Equal(t, f.AXCT[:], block[80:112])
	require.Equal(t, "AXBM", string(block[112:116]))
	require.Equal(t, f.AXBM[:], block[116:148])
	require.Equal(t, "AXCI", string(block[148:152]))
	require.Equal(t, f.AXCI[:], block[152:184])

	require.Equal(t, sha256.Sum256(block), f.Digest())
}

func TestBuildIndirectDataRoundTrips(t *testing.T) {
	digest := sha256.Sum256([]byte("footprint"))
	der, err := buildIndirectData(digest)
	require.NoError(t, err)

	var decoded spcIndirectDataContent
	_, err = asn1.Unmarshal(der, &decoded)
	require.NoError(t, err)

	require.True(t, decoded.Data.Type.Equal(oidSpcSipInfo))
	require.True(t, decoded.MessageDigest.DigestAlgorithm.Algorithm.Equal(oidSHA256))
	require.Equal(t, digest[:], decoded.MessageDigest.Digest)
}
