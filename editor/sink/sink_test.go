package sink_test

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"appxpack/editor/sink"
)

func TestHashingSinkForwardsAndHashes(t *testing.T) {
	var down bytes.Buffer
	hs := sink.NewHashingSink(&down)

	n, err := hs.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	n, err = hs.Write([]byte(" world"))
	require.NoError(t, err)
	require.Equal(t, 6, n)

	require.Equal(t, "hello world", down.String())
	require.Equal(t, sha256.Sum256([]byte("hello world")), hs.Finalize())
}

func TestHashingSinkNilDownstream(t *testing.T) {
	hs := sink.NewHashingSink(nil)
	n, err := hs.Write([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, sha256.Sum256([]byte("abc")), hs.Finalize())
}

func TestCountingSinkTracksOffset(t *testing.T) {
	var down bytes.Buffer
	cs := sink.NewCountingSink(&down)
	require.Equal(t, int64(0), cs.Offset())

	_, err := cs.Write([]byte("1234"))
	require.NoError(t, err)
	require.Equal(t, int64(4), cs.Offset())

	_, err = cs.Write([]byte("56"))
	require.NoError(t, err)
	require.Equal(t, int64(6), cs.Offset())
	require.Equal(t, "123456", down.String())
}
