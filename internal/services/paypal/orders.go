package paypal

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/diogomassis/checkout-upsale/internal/models"
)

const (
	ordersPath      = "/v2/checkout/orders"
	requestIDHeader = "PayPal-Request-Id"

	DemoOrderValue = "110.00"
	demoReturnURL  = "http://example.com"
)

// demoOrder is the fixed order the checkout page creates. The vault
// attributes ask PayPal to store the payer's method once the order succeeds.
func demoOrder() *models.OrderRequest {
	return &models.OrderRequest{
		Intent: models.IntentCapture,
		PurchaseUnits: []models.PurchaseUnit{
			{Amount: models.Amount{CurrencyCode: models.CurrencyUSD, Value: DemoOrderValue}},
		},
		PaymentSource: &models.PaymentSource{
			PayPal: &models.PayPalSource{
				Attributes: &models.SourceAttributes{
					Vault: models.VaultInstruction{
						StoreInVault: "ON_SUCCESS",
						UsageType:    "MERCHANT",
						CustomerType: "CONSUMER",
					},
				},
				ExperienceContext: &models.ExperienceContext{
					ReturnURL:          demoReturnURL,
					CancelURL:          demoReturnURL,
					ShippingPreference: "NO_SHIPPING",
				},
			},
		},
	}
}

// CreateOrder creates the demo checkout order. The cart sent by the browser is
// only logged; pricing is the fixed demo amount.
func (c *Client) CreateOrder(ctx context.Context, cart []byte) (*Response, error) {
	c.logger.Info().Str("cart", string(cart)).Msg("shopping cart information passed from the frontend")

	accessToken, err := c.GenerateAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return c.postJSON(ctx, ordersPath, accessToken, demoOrder(), nil)
}

// CaptureOrder finalizes an approved order.
// See https://developer.paypal.com/docs/api/orders/v2/#orders_capture
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Response, error) {
	accessToken, err := c.GenerateAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return c.postJSON(ctx, ordersPath+"/"+url.PathEscape(orderID)+"/capture", accessToken, nil, nil)
}

// CreateUpsaleOrder charges a vaulted payment method without payer
// interaction. requestID is sent as PayPal-Request-Id so a retry with the same
// id is not charged twice; an empty id gets a fresh random one.
func (c *Client) CreateUpsaleOrder(ctx context.Context, vaultID, amount, requestID string) (*Response, error) {
	accessToken, err := c.GenerateAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return c.postJSON(ctx, ordersPath, accessToken, models.NewVaultedOrder(vaultID, amount), map[string]string{
		requestIDHeader: requestID,
	})
}
