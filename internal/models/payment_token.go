package models

// PaymentTokens is the listing returned by GET /v3/vault/payment-tokens.
type PaymentTokens struct {
	Customer      *VaultCustomer `json:"customer,omitempty"`
	PaymentTokens []PaymentToken `json:"payment_tokens"`
	TotalItems    int            `json:"total_items,omitempty"`
	TotalPages    int            `json:"total_pages,omitempty"`
}

type VaultCustomer struct {
	ID string `json:"id"`
}

type PaymentToken struct {
	ID       string         `json:"id"`
	Customer *VaultCustomer `json:"customer,omitempty"`
}

// First returns the first stored method. The listing order is the provider's,
// so this is not guaranteed to be the customer's default method.
func (p *PaymentTokens) First() (PaymentToken, bool) {
	if p == nil || len(p.PaymentTokens) == 0 {
		return PaymentToken{}, false
	}
	return p.PaymentTokens[0], true
}
