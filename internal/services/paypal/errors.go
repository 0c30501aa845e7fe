package paypal

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("MISSING_API_CREDENTIALS")
	ErrMissingAccessToken = errors.New("oauth response did not contain an access token")
	ErrNetwork            = errors.New("payment provider is unreachable")
	ErrInvalidResponse    = errors.New("payment provider returned a non-json body")
	ErrUpstreamHTTP       = errors.New("payment provider returned an error status")
	ErrEmptyVault         = errors.New("customer has no vaulted payment method")
)

// UpstreamError is a non-2xx answer from the provider. Body is the raw
// response and may or may not be JSON.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrUpstreamHTTP, e.StatusCode, truncate(e.Body))
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamHTTP
}

// InvalidResponseError carries the raw text of a body that could not be
// parsed as JSON.
type InvalidResponseError struct {
	StatusCode int
	Raw        string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrInvalidResponse, e.StatusCode, truncate([]byte(e.Raw)))
}

func (e *InvalidResponseError) Unwrap() error {
	return ErrInvalidResponse
}

type Kind string

const (
	KindMissingCredentials Kind = "MISSING_CREDENTIALS"
	KindUpstreamHTTP       Kind = "UPSTREAM_HTTP"
	KindEmptyVault         Kind = "EMPTY_VAULT"
	KindNetwork            Kind = "NETWORK_FAILURE"
	KindInvalidResponse    Kind = "INVALID_RESPONSE"
	KindInternal           Kind = "INTERNAL"
)

// KindOf classifies err into one of the stable kinds exposed to clients.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredentials):
		return KindMissingCredentials
	case errors.Is(err, ErrEmptyVault):
		return KindEmptyVault
	case errors.Is(err, ErrUpstreamHTTP):
		return KindUpstreamHTTP
	case errors.Is(err, ErrInvalidResponse), errors.Is(err, ErrMissingAccessToken):
		return KindInvalidResponse
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return KindInternal
	}
}

const maxErrorBody = 512

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
