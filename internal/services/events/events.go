package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeOrderCreated  = "order.created"
	TypeOrderCaptured = "order.captured"
	TypeUpsaleCreated = "upsale.created"
)

type OrderEvent struct {
	Type       string          `json:"type"`
	OrderID    string          `json:"order_id"`
	Status     string          `json:"status"`
	CustomerID string          `json:"customer_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ParseAmount converts the opaque amount string to a decimal. Anything that is
// not a number becomes zero; the value is informational only.
func ParseAmount(raw string) decimal.Decimal {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
