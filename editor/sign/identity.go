// Package sign implements the PKCS#7 signer (component H): given the
// APPX footprint block and a PKCS#12 key/cert bundle, it produces the
// DER-encoded detached SignedData blob framed as the APPX signature
// entry.
//
// The key-loading/signing method shapes are adapted from
// _examples/Mr-XiaoLei-apk-editor/editor/signv2/keys.go's
// SigningKey/SigningCert (the teacher's RSA key loader): that file's
// Resolve()-before-use discipline and Sign/SignPrehashed split are kept,
// but the load path is PKCS#12 (golang.org/x/crypto/pkcs12) instead of
// bare PEM, since the spec's signing input is a PKCS#12 bundle.
package sign

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"os"

	"golang.org/x/crypto/pkcs12"

	"appxpack/editor/apperr"
)

// SigningIdentity is a resolved RSA signing key plus its leaf certificate
// and any intermediate CA certificates carried in the same bundle.
type SigningIdentity struct {
	Key           *rsa.PrivateKey
	Certificate   *x509.Certificate
	Intermediates []*x509.Certificate
}

// LoadFromPKCS12 reads and parses a PKCS#12 file, returning the resolved
// signing identity. If the bundle contains more than one leaf-eligible
// certificate, loading fails with CryptoError(AmbiguousSigner) rather
// than guessing which one to sign with (spec.md §9 Open Question).
func LoadFromPKCS12(path, passphrase string) (*SigningIdentity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.IO(path, err)
	}
	defer zeroBytes(raw)

	key, leaf, chain, err := pkcs12.DecodeChain(raw, passphrase)
	if err != nil {
		return nil, apperr.Crypto("BadKeyFile", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, apperr.Crypto("BadKeyFile", errors.New("PKCS#12 private key is not RSA"))
	}

	leafCount := 0
	var intermediates []*x509.Certificate
	for _, c := range chain {
		if c.Equal(leaf) {
			continue
		}
		if isLeafEligible(c) {
			leafCount++
		}
		intermediates = append(intermediates, c)
	}
	if isLeafEligible(leaf) {
		leafCount++
	}
	if leafCount > 1 {
		return nil, apperr.Crypto("AmbiguousSigner", errors.New("PKCS#12 bundle contains multiple leaf-eligible certificates"))
	}

	return &SigningIdentity{Key: rsaKey, Certificate: leaf, Intermediates: intermediates}, nil
}

// isLeafEligible reports whether cert could plausibly be an end-entity
// signing certificate (as opposed to a CA certificate present only to
// complete a chain).
func isLeafEligible(cert *x509.Certificate) bool {
	return !cert.IsCA
}

// Sign hashes data with hash and signs the digest. Only RSA-PKCS#1 v1.5
// is supported (spec.md §4.H).
func (si *SigningIdentity) Sign(data []byte, hash crypto.Hash) ([]byte, error) {
	h := hash.New()
	h.Write(data)
	return si.SignPrehashed(h.Sum(nil), hash)
}

// SignPrehashed signs an already-computed digest.
func (si *SigningIdentity) SignPrehashed(digest []byte, hash crypto.Hash) ([]byte, error) {
	sig, err := rsa.SignPKCS1v15(rand.Reader, si.Key, hash, digest)
	if err != nil {
		return nil, apperr.Crypto("SignFailed", err)
	}
	return sig, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
