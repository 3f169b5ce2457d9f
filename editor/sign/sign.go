package sign

import (
	"github.com/smallstep/pkcs7"

	"appxpack/editor/apperr"
)

// signatureMagic is the 4-byte ASCII prefix framing the DER-encoded
// SignedData as the APPX signature entry's payload (spec.md §4.H).
const signatureMagic = "PKCX"

// Sign produces the framed APPX signature entry payload (magic + DER
// SignedData) for the given footprint, using identity as the signer.
// Any intermediate CA certificates carried by identity are included in
// the SignedData as unsigned (non-signing) certificates.
func Sign(identity *SigningIdentity, footprint Footprint) ([]byte, error) {
	indirectData, err := buildIndirectData(footprint.Digest())
	if err != nil {
		return nil, apperr.Crypto("SignFailed", err)
	}

	signedData, err := pkcs7.NewSignedData(indirectData)
	if err != nil {
		return nil, apperr.Crypto("SignFailed", err)
	}
	signedData.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)
	// smallstep/pkcs7 (unlike upstream mozilla/pkcs7) lets callers override
	// the eContentType instead of hardcoding id-data, which is what lets
	// the SignedData claim SpcIndirectDataContext here.
	signedData.ContentType = OIDSpcIndirectDataContext

	if err := signedData.AddSigner(identity.Certificate, identity.Key, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, apperr.Crypto("SignFailed", err)
	}
	for _, intermediate := range identity.Intermediates {
		signedData.AddCertificate(intermediate)
	}

	der, err := signedData.Finish()
	if err != nil {
		return nil, apperr.Crypto("SignFailed", err)
	}

	out := make([]byte, 0, len(signatureMagic)+len(der))
	out = append(out, signatureMagic...)
	out = append(out, der...)
	return out, nil
}
