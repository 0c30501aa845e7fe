package models

const (
	IntentCapture = "CAPTURE"
	CurrencyUSD   = "USD"
)

// OrderRequest is the body of POST /v2/checkout/orders.
type OrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
	PaymentSource *PaymentSource `json:"payment_source,omitempty"`
}

type PurchaseUnit struct {
	Amount Amount `json:"amount"`
}

// Amount keeps Value as the decimal string PayPal expects.
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type PaymentSource struct {
	PayPal *PayPalSource `json:"paypal,omitempty"`
}

// PayPalSource either references a vaulted payment method through VaultID or
// asks PayPal to vault the method the payer chooses.
type PayPalSource struct {
	VaultID           string             `json:"vault_id,omitempty"`
	Attributes        *SourceAttributes  `json:"attributes,omitempty"`
	ExperienceContext *ExperienceContext `json:"experience_context,omitempty"`
}

type SourceAttributes struct {
	Vault VaultInstruction `json:"vault"`
}

type VaultInstruction struct {
	StoreInVault string `json:"store_in_vault"`
	UsageType    string `json:"usage_type"`
	CustomerType string `json:"customer_type"`
}

type ExperienceContext struct {
	ReturnURL          string `json:"return_url"`
	CancelURL          string `json:"cancel_url"`
	ShippingPreference string `json:"shipping_preference"`
}

// OrderSummary holds the handful of fields read back from an order response.
type OrderSummary struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewVaultedOrder(vaultID, amount string) *OrderRequest {
	return &OrderRequest{
		Intent: IntentCapture,
		PurchaseUnits: []PurchaseUnit{
			{Amount: Amount{CurrencyCode: CurrencyUSD, Value: amount}},
		},
		PaymentSource: &PaymentSource{
			PayPal: &PayPalSource{VaultID: vaultID},
		},
	}
}
