package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// Verifier checks a delivery signature against the raw request body.
type Verifier interface {
	Verify(body []byte, signature string) bool
}

// SignatureVerifier verifies base64(HMAC-SHA256(secret, body)) signatures.
type SignatureVerifier struct {
	Secret string
}

func (v SignatureVerifier) Verify(body []byte, signature string) bool {
	return VerifySignature(v.Secret, body, signature)
}

// ComputeSignature returns base64(HMAC-SHA256(secret, body)).
func ComputeSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether provided matches the signature computed
// over body. Both values are reduced to fixed-size digests before the
// constant-time comparison so differing lengths do not exit early. An empty
// secret is a valid HMAC key; an empty signature never matches.
func VerifySignature(secret string, body []byte, provided string) bool {
	if provided == "" {
		return false
	}
	expected := sha256.Sum256([]byte(ComputeSignature(secret, body)))
	actual := sha256.Sum256([]byte(provided))
	return subtle.ConstantTimeCompare(expected[:], actual[:]) == 1
}

var _ Verifier = SignatureVerifier{}
