package appxenv_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"appxpack/internal/appxenv"
)

func TestSignPassphraseDefaultsToEmpty(t *testing.T) {
	t.Setenv(appxenv.SignPassphraseVar, "")
	require.NoError(t, os.Unsetenv(appxenv.SignPassphraseVar))
	require.Equal(t, "", appxenv.SignPassphrase())
}

func TestSignPassphraseReadsEnvironment(t *testing.T) {
	t.Setenv(appxenv.SignPassphraseVar, "hunter2")
	require.Equal(t, "hunter2", appxenv.SignPassphrase())
}
