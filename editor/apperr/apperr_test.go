package apperr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"appxpack/editor/apperr"
)

func TestMissingManifestMessage(t *testing.T) {
	err := apperr.MissingManifestErr()
	require.Equal(t, apperr.MissingManifest, err.Kind)
	require.Contains(t, err.Error(), "AppxBundleManifest.xml")
}

func TestMalformedIncludesLineNumber(t *testing.T) {
	err := apperr.Malformed(42)
	require.Contains(t, err.Error(), "42")
}

func TestErrorsAsUnwrapsUnderlying(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := apperr.IO("/tmp/out.appx", cause)

	var target *apperr.Error
	require.True(t, errors.As(wrapped, &target))
	require.Same(t, cause, errors.Unwrap(wrapped))
}

func TestCryptoIncludesStage(t *testing.T) {
	err := apperr.Crypto("AmbiguousSigner", errors.New("two leaf certs"))
	require.Contains(t, err.Error(), "AmbiguousSigner")
	require.Contains(t, err.Error(), "two leaf certs")
}
