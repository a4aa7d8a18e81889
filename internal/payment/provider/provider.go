package provider

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrUnknownProvider  = errors.New("unknown payment provider")
)

// EventKind classifies a provider event into the actions this system takes
type EventKind int

const (
	// EventUnknown covers everything in the provider's catalog this
	// system does not act on. Unknown events are acked, not rejected.
	EventUnknown EventKind = iota
	EventPaymentSucceeded
	EventPaymentFailed
)

// Event is a verified, normalized payment-provider notification
type Event struct {
	Kind          EventKind
	Provider      string
	EventID       string
	OrderID       uint
	TransactionID string
}

// Verifier authenticates a raw webhook delivery and normalizes it into an
// Event. Verification failures reject at the boundary, before any state
// mutation.
type Verifier interface {
	Name() string
	VerifyEvent(payload []byte, signatureHeader string) (*Event, error)
}

// Registry resolves verifiers by provider name
type Registry struct {
	verifiers map[string]Verifier
}

// NewRegistry creates a registry over the given verifiers
func NewRegistry(verifiers ...Verifier) *Registry {
	r := &Registry{verifiers: make(map[string]Verifier, len(verifiers))}
	for _, v := range verifiers {
		r.verifiers[v.Name()] = v
	}
	return r
}

// Lookup returns the verifier for a provider name
func (r *Registry) Lookup(name string) (Verifier, error) {
	v, ok := r.verifiers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return v, nil
}
