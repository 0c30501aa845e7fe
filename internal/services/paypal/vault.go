package paypal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	json "github.com/json-iterator/go"

	"github.com/diogomassis/checkout-upsale/internal/models"
)

const paymentTokensPath = "/v3/vault/payment-tokens"

// GetPaymentTokens lists the methods vaulted for customerID. An empty
// customerID yields an empty listing without touching the network.
func (c *Client) GetPaymentTokens(ctx context.Context, customerID string) (*models.PaymentTokens, error) {
	if customerID == "" {
		return &models.PaymentTokens{}, nil
	}

	accessToken, err := c.GenerateAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{"customer_id": {customerID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+paymentTokensPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment tokens request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en_US")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	status, raw, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &UpstreamError{StatusCode: status, Body: raw}
	}

	var tokens models.PaymentTokens
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, &InvalidResponseError{StatusCode: status, Raw: string(raw)}
	}
	return &tokens, nil
}
