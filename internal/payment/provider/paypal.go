package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// PayPalVerifier authenticates PayPal webhook deliveries via the shared
// transmission secret: the signature header is a hex HMAC-SHA256 of the raw
// body.
type PayPalVerifier struct {
	secret []byte
}

// NewPayPalVerifier creates a verifier for the given webhook secret
func NewPayPalVerifier(secret string) *PayPalVerifier {
	return &PayPalVerifier{secret: []byte(secret)}
}

// Name implements Verifier
func (v *PayPalVerifier) Name() string { return "paypal" }

type paypalEvent struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		ID     string `json:"id"`
		Custom string `json:"custom"`
	} `json:"resource"`
}

// VerifyEvent implements Verifier
func (v *PayPalVerifier) VerifyEvent(payload []byte, signatureHeader string) (*Event, error) {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signatureHeader)
	if err != nil || !hmac.Equal(expected, provided) {
		return nil, ErrInvalidSignature
	}

	var raw paypalEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	event := &Event{
		Provider:      v.Name(),
		EventID:       raw.ID,
		TransactionID: raw.Resource.ID,
	}

	switch raw.EventType {
	case "PAYMENT.SALE.COMPLETED":
		event.Kind = EventPaymentSucceeded
	case "PAYMENT.SALE.DENIED":
		event.Kind = EventPaymentFailed
	default:
		event.Kind = EventUnknown
		return event, nil
	}

	// The sale's custom field carries the order id set at payment creation
	orderID, err := strconv.ParseUint(raw.Resource.Custom, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: missing or invalid custom order reference", ErrInvalidPayload)
	}
	event.OrderID = uint(orderID)

	return event, nil
}
