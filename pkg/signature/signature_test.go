package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhook(t *testing.T) {
	body := `{"event":"payment.captured","payload":{}}`
	secret := "whsec_test"
	good := sign(body, secret)

	require.True(t, VerifyWebhook([]byte(body), good, secret))

	// Flipping a single byte of either input must fail verification.
	require.False(t, VerifyWebhook([]byte(body+" "), good, secret))
	mutated := []byte(good)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	require.False(t, VerifyWebhook([]byte(body), string(mutated), secret))

	require.False(t, VerifyWebhook([]byte(body), good, "wrong_secret"))
	require.False(t, VerifyWebhook([]byte(body), "", secret))
	require.False(t, VerifyWebhook([]byte(body), good, ""))
}

func TestVerifyCheckout(t *testing.T) {
	secret := "key_secret_test"
	orderID := "order_Abc123"
	paymentID := "pay_Xyz789"
	good := sign(orderID+"|"+paymentID, secret)

	require.True(t, VerifyCheckout(orderID, paymentID, good, secret))
	require.False(t, VerifyCheckout(orderID, "pay_other", good, secret))
	require.False(t, VerifyCheckout("order_other", paymentID, good, secret))
	require.False(t, VerifyCheckout(orderID, paymentID, good, "wrong"))
	require.False(t, VerifyCheckout(orderID, paymentID, "", secret))
}
