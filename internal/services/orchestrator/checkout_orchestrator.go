package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diogomassis/checkout-upsale/internal/models"
	"github.com/diogomassis/checkout-upsale/internal/services/events"
	"github.com/diogomassis/checkout-upsale/internal/services/paypal"
)

const requestIDTTL = 24 * time.Hour

type PaymentClient interface {
	CreateOrder(ctx context.Context, cart []byte) (*paypal.Response, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.Response, error)
	GetPaymentTokens(ctx context.Context, customerID string) (*models.PaymentTokens, error)
	CreateUpsaleOrder(ctx context.Context, vaultID, amount, requestID string) (*paypal.Response, error)
}

type RequestIDStore interface {
	Reserve(ctx context.Context, key, candidate string, ttl time.Duration) (string, error)
}

// CheckoutOrchestrator sequences the provider calls behind each checkout
// route and emits a lifecycle event for every successful one.
type CheckoutOrchestrator struct {
	client    PaymentClient
	publisher events.Publisher
	requests  RequestIDStore
	logger    zerolog.Logger
	now       func() time.Time
}

func NewCheckoutOrchestrator(client PaymentClient, publisher events.Publisher, requests RequestIDStore, logger zerolog.Logger) *CheckoutOrchestrator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CheckoutOrchestrator{
		client:    client,
		publisher: publisher,
		requests:  requests,
		logger:    logger.With().Str("component", "orchestrator").Logger(),
		now:       time.Now,
	}
}

func (o *CheckoutOrchestrator) CreateOrder(ctx context.Context, cart []byte) (*paypal.Response, error) {
	res, err := o.client.CreateOrder(ctx, cart)
	if err != nil {
		return nil, err
	}
	o.emit(ctx, events.TypeOrderCreated, res, "", paypal.DemoOrderValue)
	return res, nil
}

func (o *CheckoutOrchestrator) CaptureOrder(ctx context.Context, orderID string) (*paypal.Response, error) {
	res, err := o.client.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.emit(ctx, events.TypeOrderCaptured, res, "", "")
	return res, nil
}

// HandleUpsale charges the first vaulted method of customerID for amount.
// The provider response is returned with its own status code.
func (o *CheckoutOrchestrator) HandleUpsale(ctx context.Context, customerID, amount, idempotencyKey string) (*paypal.Response, error) {
	tokens, err := o.client.GetPaymentTokens(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("vault lookup for customer %q: %w", customerID, err)
	}
	token, ok := tokens.First()
	if !ok || token.ID == "" {
		return nil, fmt.Errorf("%w: customer %q", paypal.ErrEmptyVault, customerID)
	}

	requestID := o.requestID(ctx, customerID, amount, idempotencyKey)
	res, err := o.client.CreateUpsaleOrder(ctx, token.ID, amount, requestID)
	if err != nil {
		return nil, err
	}
	o.logger.Info().
		Str("customer_id", customerID).
		Str("request_id", requestID).
		Int("status", res.StatusCode).
		Msg("upsale order created")
	o.emit(ctx, events.TypeUpsaleCreated, res, customerID, amount)
	return res, nil
}

// requestID returns the provider request id for one logical upsale. Without a
// caller key or a store every call is a new operation.
func (o *CheckoutOrchestrator) requestID(ctx context.Context, customerID, amount, idempotencyKey string) string {
	candidate := uuid.NewString()
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey == "" || o.requests == nil {
		return candidate
	}

	key := strings.Join([]string{customerID, amount, idempotencyKey}, ":")
	requestID, err := o.requests.Reserve(ctx, key, candidate, requestIDTTL)
	if err != nil {
		o.logger.Warn().Err(err).Str("customer_id", customerID).Msg("request id store unavailable, using a fresh id")
		return candidate
	}
	return requestID
}

func (o *CheckoutOrchestrator) emit(ctx context.Context, eventType string, res *paypal.Response, customerID, amount string) {
	if !res.OK() {
		return
	}
	var order models.OrderSummary
	if err := res.Decode(&order); err != nil || order.ID == "" {
		o.logger.Warn().Str("type", eventType).Msg("provider response has no order id, skipping event")
		return
	}

	event := events.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		Status:     order.Status,
		CustomerID: customerID,
		Amount:     events.ParseAmount(amount),
		OccurredAt: o.now().UTC(),
	}
	if amount != "" {
		event.Currency = models.CurrencyUSD
	}
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Error().Err(err).Str("type", eventType).Str("order_id", order.ID).Msg("failed to publish order event")
	}
}
