package tools

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyMetaSignature validates a webhook body against Meta's
// X-Hub-Signature-256 header. The secret is the Meta App Secret, not the
// access token. Returns ok plus a reason suitable for logging.
func VerifyMetaSignature(rawBody []byte, header string, secret string) (bool, string) {
	if strings.TrimSpace(secret) == "" {
		return false, "missing app secret"
	}

	sig := strings.TrimSpace(header)
	if sig == "" {
		return false, "missing X-Hub-Signature-256"
	}
	if !strings.HasPrefix(sig, "sha256=") {
		return false, "invalid X-Hub-Signature-256 format"
	}

	provided, err := hex.DecodeString(strings.TrimPrefix(sig, "sha256="))
	if err != nil {
		return false, "invalid signature hex"
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(rawBody)
	expected := mac.Sum(nil)

	if !hmac.Equal(provided, expected) {
		return false, "signature mismatch"
	}
	return true, ""
}
