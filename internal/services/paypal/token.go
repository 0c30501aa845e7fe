package paypal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	json "github.com/json-iterator/go"
)

const tokenPath = "/v1/oauth2/token"

type AuthResult struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`

	Raw        json.RawMessage `json:"-"`
	StatusCode int             `json:"-"`
}

// Authenticate exchanges the client credentials for a bearer token. extra is
// merged over the default grant parameters.
// See https://developer.paypal.com/api/rest/authentication/
func (c *Client) Authenticate(ctx context.Context, extra url.Values) (*AuthResult, error) {
	if !c.credentials.Complete() {
		return nil, ErrMissingCredentials
	}

	params := url.Values{
		"grant_type":    {"client_credentials"},
		"response_type": {"id_token"},
	}
	for k, v := range extra {
		params[k] = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.credentials.ClientID, c.credentials.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	status, raw, err := c.send(req)
	if err != nil {
		return nil, err
	}
	res, err := toResponse(status, raw)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, &UpstreamError{StatusCode: res.StatusCode, Body: res.Body}
	}

	var result AuthResult
	if err := res.Decode(&result); err != nil {
		return nil, &InvalidResponseError{StatusCode: status, Raw: string(raw)}
	}
	result.Raw = res.Body
	result.StatusCode = res.StatusCode
	return &result, nil
}

func (c *Client) GenerateAccessToken(ctx context.Context) (string, error) {
	result, err := c.Authenticate(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	if result.AccessToken == "" {
		return "", ErrMissingAccessToken
	}
	return result.AccessToken, nil
}

// GenerateUserIDToken returns the id token the JS SDK needs to show a
// returning buyer their vaulted methods.
func (c *Client) GenerateUserIDToken(ctx context.Context, customerID string) (string, error) {
	result, err := c.Authenticate(ctx, url.Values{"target_customer_id": {customerID}})
	if err != nil {
		return "", fmt.Errorf("failed to generate id token: %w", err)
	}
	return result.IDToken, nil
}
