package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func signStripe(t *testing.T, secret string, timestamp int64, payload []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func signPayPal(t *testing.T, secret string, payload []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func stripeVerifierAt(secret string, now time.Time) *StripeVerifier {
	v := NewStripeVerifier(secret)
	v.now = func() time.Time { return now }
	return v
}

func TestStripeVerifierAcceptsValidEvent(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	payload := []byte(`{
		"id": "evt_001",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "metadata": {"order_id": "42"}}}
	}`)

	v := stripeVerifierAt(testSecret, now)
	event, err := v.VerifyEvent(payload, signStripe(t, testSecret, now.Unix(), payload))

	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event.Kind)
	assert.Equal(t, "stripe", event.Provider)
	assert.Equal(t, "evt_001", event.EventID)
	assert.Equal(t, uint(42), event.OrderID)
	assert.Equal(t, "pi_123", event.TransactionID)
}

func TestStripeVerifierMapsFailureEvent(t *testing.T) {
	now := time.Now()
	payload := []byte(`{
		"id": "evt_002",
		"type": "payment_intent.payment_failed",
		"data": {"object": {"id": "pi_456", "metadata": {"order_id": "7"}}}
	}`)

	v := stripeVerifierAt(testSecret, now)
	event, err := v.VerifyEvent(payload, signStripe(t, testSecret, now.Unix(), payload))

	require.NoError(t, err)
	assert.Equal(t, EventPaymentFailed, event.Kind)
	assert.Equal(t, uint(7), event.OrderID)
}

func TestStripeVerifierRejectsWrongSecret(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id": "evt_003", "type": "payment_intent.succeeded"}`)

	v := stripeVerifierAt(testSecret, now)
	_, err := v.VerifyEvent(payload, signStripe(t, "whsec_other", now.Unix(), payload))

	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStripeVerifierRejectsTamperedPayload(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id": "evt_004", "type": "payment_intent.succeeded", "data": {"object": {"metadata": {"order_id": "42"}}}}`)
	header := signStripe(t, testSecret, now.Unix(), payload)
	tampered := []byte(`{"id": "evt_004", "type": "payment_intent.succeeded", "data": {"object": {"metadata": {"order_id": "43"}}}}`)

	v := stripeVerifierAt(testSecret, now)
	_, err := v.VerifyEvent(tampered, header)

	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStripeVerifierRejectsStaleTimestamp(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id": "evt_005", "type": "payment_intent.succeeded"}`)
	stale := now.Add(-10 * time.Minute).Unix()

	v := stripeVerifierAt(testSecret, now)
	_, err := v.VerifyEvent(payload, signStripe(t, testSecret, stale, payload))

	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStripeVerifierRejectsMalformedHeader(t *testing.T) {
	v := NewStripeVerifier(testSecret)

	for _, header := range []string{"", "v1=deadbeef", "t=123", "t=abc,v1=deadbeef"} {
		_, err := v.VerifyEvent([]byte(`{}`), header)
		assert.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestStripeVerifierAcksUnknownEventType(t *testing.T) {
	now := time.Now()
	// Unknown types carry no order metadata; they must still verify cleanly
	payload := []byte(`{"id": "evt_006", "type": "charge.refunded", "data": {"object": {"id": "ch_1"}}}`)

	v := stripeVerifierAt(testSecret, now)
	event, err := v.VerifyEvent(payload, signStripe(t, testSecret, now.Unix(), payload))

	require.NoError(t, err)
	assert.Equal(t, EventUnknown, event.Kind)
	assert.Equal(t, "evt_006", event.EventID)
}

func TestStripeVerifierRejectsMissingOrderID(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id": "evt_007", "type": "payment_intent.succeeded", "data": {"object": {"id": "pi_789"}}}`)

	v := stripeVerifierAt(testSecret, now)
	_, err := v.VerifyEvent(payload, signStripe(t, testSecret, now.Unix(), payload))

	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestPayPalVerifierAcceptsValidEvent(t *testing.T) {
	payload := []byte(`{
		"id": "WH-001",
		"event_type": "PAYMENT.SALE.COMPLETED",
		"resource": {"id": "SALE-123", "custom": "42"}
	}`)

	v := NewPayPalVerifier(testSecret)
	event, err := v.VerifyEvent(payload, signPayPal(t, testSecret, payload))

	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event.Kind)
	assert.Equal(t, "paypal", event.Provider)
	assert.Equal(t, "WH-001", event.EventID)
	assert.Equal(t, uint(42), event.OrderID)
	assert.Equal(t, "SALE-123", event.TransactionID)
}

func TestPayPalVerifierMapsDeniedEvent(t *testing.T) {
	payload := []byte(`{"id": "WH-002", "event_type": "PAYMENT.SALE.DENIED", "resource": {"id": "SALE-456", "custom": "9"}}`)

	v := NewPayPalVerifier(testSecret)
	event, err := v.VerifyEvent(payload, signPayPal(t, testSecret, payload))

	require.NoError(t, err)
	assert.Equal(t, EventPaymentFailed, event.Kind)
	assert.Equal(t, uint(9), event.OrderID)
}

func TestPayPalVerifierRejectsBadSignature(t *testing.T) {
	payload := []byte(`{"id": "WH-003", "event_type": "PAYMENT.SALE.COMPLETED"}`)

	v := NewPayPalVerifier(testSecret)

	_, err := v.VerifyEvent(payload, "not-hex")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = v.VerifyEvent(payload, signPayPal(t, "other-secret", payload))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestPayPalVerifierAcksUnknownEventType(t *testing.T) {
	payload := []byte(`{"id": "WH-004", "event_type": "BILLING.SUBSCRIPTION.CREATED", "resource": {"id": "SUB-1"}}`)

	v := NewPayPalVerifier(testSecret)
	event, err := v.VerifyEvent(payload, signPayPal(t, testSecret, payload))

	require.NoError(t, err)
	assert.Equal(t, EventUnknown, event.Kind)
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry(NewStripeVerifier("a"), NewPayPalVerifier("b"))

	stripe, err := registry.Lookup("stripe")
	require.NoError(t, err)
	assert.Equal(t, "stripe", stripe.Name())

	paypal, err := registry.Lookup("paypal")
	require.NoError(t, err)
	assert.Equal(t, "paypal", paypal.Name())

	_, err = registry.Lookup("square")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
