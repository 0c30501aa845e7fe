package dto

import "encoding/json"

type CreateOrderRequest struct {
	Cart json.RawMessage `json:"cart"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type CheckoutPage struct {
	ClientID    string
	UserIDToken string
}
