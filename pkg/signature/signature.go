// Package signature implements the two HMAC-SHA256 verification schemes the
// payment gateway uses: webhook deliveries sign the raw request body, checkout
// callbacks sign "orderID|paymentID".
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyWebhook checks the webhook signature header against an HMAC-SHA256
// of the raw, unmodified request body.
func VerifyWebhook(body []byte, signature, secret string) bool {
	return verify(body, signature, secret)
}

// VerifyCheckout checks the signature returned by the hosted checkout against
// an HMAC-SHA256 of "orderID|paymentID".
func VerifyCheckout(orderID, paymentID, signature, secret string) bool {
	return verify([]byte(orderID+"|"+paymentID), signature, secret)
}

func verify(payload []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
