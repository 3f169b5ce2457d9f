// Package appxenv centralizes the environment-variable surface
// appxpack reads from: one place that knows the variable name, so it
// can be swapped out or overridden in tests.
package appxenv

import "os"

// SignPassphraseVar is the environment variable supplying the PKCS#12
// passphrase (spec.md §6 "Environment"). An absent variable means an
// empty passphrase, not an error.
const SignPassphraseVar = "APPX_SIGN_PASSPHRASE"

// SignPassphrase returns the configured PKCS#12 passphrase, or "" if
// SignPassphraseVar is unset.
func SignPassphrase() string {
	return os.Getenv(SignPassphraseVar)
}
