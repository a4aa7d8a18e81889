package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acmeshop/storefront/internal/order/usecase/command"
	"github.com/acmeshop/storefront/internal/payment/dedup"
	"github.com/acmeshop/storefront/internal/payment/provider"
	"github.com/acmeshop/storefront/pkg/logger"
)

// webhook bodies are small JSON documents; cap reads defensively
const maxWebhookBody = 1 << 20

// signatureHeaders maps a provider name to the header carrying its signature
var signatureHeaders = map[string]string{
	"stripe": "Stripe-Signature",
	"paypal": "Paypal-Transmission-Sig",
}

// WebhookHandler receives payment provider callbacks, verifies them at the
// boundary, and hands verified events to the reconciliation usecase.
type WebhookHandler struct {
	verifiers *provider.Registry
	events    *dedup.Store
	reconcile *command.ReconcilePaymentHandler

	webhooksTotal *prometheus.CounterVec
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	verifiers *provider.Registry,
	events *dedup.Store,
	reconcile *command.ReconcilePaymentHandler,
) *WebhookHandler {
	webhooksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_webhooks_total",
			Help: "Total number of webhook deliveries by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
	prometheus.MustRegister(webhooksTotal)

	return &WebhookHandler{
		verifiers:     verifiers,
		events:        events,
		reconcile:     reconcile,
		webhooksTotal: webhooksTotal,
	}
}

// RegisterRoutes registers the webhook routes
func (h *WebhookHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/webhooks/{provider}", h.HandleProviderWebhook).Methods("POST")
}

// HandleProviderWebhook handles POST /api/webhooks/{provider}
func (h *WebhookHandler) HandleProviderWebhook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerName := vars["provider"]

	verifier, err := h.verifiers.Lookup(providerName)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Unknown payment provider",
		})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Failed to read request body",
		})
		return
	}

	event, err := verifier.VerifyEvent(payload, r.Header.Get(signatureHeaders[providerName]))
	if err != nil {
		h.webhooksTotal.WithLabelValues(providerName, "rejected").Inc()
		logger.Warn(r.Context()).
			Err(err).
			Str("provider", providerName).
			Msg("Webhook verification failed")

		status := http.StatusBadRequest
		if errors.Is(err, provider.ErrInvalidSignature) {
			status = http.StatusUnauthorized
		}
		respondJSON(w, status, Response{
			Success: false,
			Error:   "Webhook verification failed",
		})
		return
	}

	// Duplicate suppression is a fast path only. The conditional status
	// transition in the repository remains the authoritative guard, so a
	// dedup failure falls through to reconciliation.
	seen, err := h.events.Seen(r.Context(), providerName, event.EventID)
	if err != nil {
		logger.Warn(r.Context()).
			Err(err).
			Str("provider", providerName).
			Msg("Webhook dedup check failed, continuing")
	} else if seen {
		h.webhooksTotal.WithLabelValues(providerName, "duplicate").Inc()
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Event already processed",
		})
		return
	}

	if err := h.reconcile.Handle(r.Context(), *event); err != nil {
		h.webhooksTotal.WithLabelValues(providerName, "error").Inc()
		logger.Error(r.Context()).
			Err(err).
			Str("provider", providerName).
			Str("event_id", event.EventID).
			Msg("Webhook reconciliation failed")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to process event",
		})
		return
	}

	h.webhooksTotal.WithLabelValues(providerName, "processed").Inc()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Event processed",
	})
}
