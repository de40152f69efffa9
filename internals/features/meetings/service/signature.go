// file: internals/features/meetings/service/signature.go
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Toleransi umur timestamp webhook — di luar ini dianggap replay.
const signatureMaxSkew = 5 * time.Minute

// ComputeWebhookSignature: skema "v0=hex(hmac_sha256(secret, v0:ts:body))".
func ComputeWebhookSignature(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature: cek HMAC constant-time + umur timestamp.
func VerifyWebhookSignature(secret, signature, timestamp string, body []byte, now time.Time) error {
	if secret == "" {
		return fmt.Errorf("webhook secret belum dikonfigurasi")
	}
	if signature == "" || timestamp == "" {
		return fmt.Errorf("missing signature headers")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed timestamp header")
	}
	sent := time.Unix(ts, 0)
	if d := now.Sub(sent); d > signatureMaxSkew || d < -signatureMaxSkew {
		return fmt.Errorf("webhook timestamp outside tolerance")
	}

	expected := ComputeWebhookSignature(secret, timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("webhook signature mismatch")
	}
	return nil
}

// EncryptValidationToken: jawaban handshake URL-validation provider —
// HMAC plainToken dengan secret yang sama.
func EncryptValidationToken(secret, plainToken string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(plainToken))
	return hex.EncodeToString(mac.Sum(nil))
}
