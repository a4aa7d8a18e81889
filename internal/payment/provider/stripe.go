package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const stripeSignatureTolerance = 5 * time.Minute

// StripeVerifier authenticates Stripe webhook deliveries. The signature
// header carries a timestamp and an HMAC-SHA256 of "<timestamp>.<payload>"
// keyed with the endpoint's webhook secret.
type StripeVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewStripeVerifier creates a verifier for the given webhook secret
func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: []byte(secret), now: time.Now}
}

// Name implements Verifier
func (v *StripeVerifier) Name() string { return "stripe" }

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string `json:"id"`
			Metadata struct {
				OrderID string `json:"order_id"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyEvent implements Verifier
func (v *StripeVerifier) VerifyEvent(payload []byte, signatureHeader string) (*Event, error) {
	timestamp, signature, err := parseStripeSignature(signatureHeader)
	if err != nil {
		return nil, err
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > stripeSignatureTolerance || age < -stripeSignatureTolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(expected, provided) {
		return nil, ErrInvalidSignature
	}

	var raw stripeEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	event := &Event{
		Provider:      v.Name(),
		EventID:       raw.ID,
		TransactionID: raw.Data.Object.ID,
	}

	switch raw.Type {
	case "payment_intent.succeeded":
		event.Kind = EventPaymentSucceeded
	case "payment_intent.payment_failed":
		event.Kind = EventPaymentFailed
	default:
		event.Kind = EventUnknown
		return event, nil
	}

	orderID, err := strconv.ParseUint(raw.Data.Object.Metadata.OrderID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: missing or invalid order_id metadata", ErrInvalidPayload)
	}
	event.OrderID = uint(orderID)

	return event, nil
}

func parseStripeSignature(header string) (int64, string, error) {
	var timestamp int64
	var signature string

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			t, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, "", fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
			}
			timestamp = t
		case "v1":
			signature = value
		}
	}

	if timestamp == 0 || signature == "" {
		return 0, "", fmt.Errorf("%w: missing signature elements", ErrInvalidSignature)
	}
	return timestamp, signature, nil
}
