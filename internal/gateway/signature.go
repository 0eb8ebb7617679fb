// Package gateway holds the pieces of the Razorpay integration this service consumes.
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks that a checkout callback was produced by Razorpay.
// The signature is the hex HMAC-SHA256 of "order_id|payment_id" keyed with the account's key secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given key secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign returns the signature Razorpay would produce for the pair.
func (v *Verifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches the expected signature for the pair.
// The comparison runs in constant time.
func (v *Verifier) Verify(orderID, paymentID, signature string) bool {
	expected := v.Sign(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
