package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/diogomassis/checkout-upsale/internal/dto"
	"github.com/diogomassis/checkout-upsale/internal/env"
	"github.com/diogomassis/checkout-upsale/internal/services/paypal"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type Checkout interface {
	CreateOrder(ctx context.Context, cart []byte) (*paypal.Response, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.Response, error)
	HandleUpsale(ctx context.Context, customerID, amount, idempotencyKey string) (*paypal.Response, error)
}

type IDTokenGenerator interface {
	GenerateUserIDToken(ctx context.Context, customerID string) (string, error)
}

type Handlers struct {
	checkout       Checkout
	idTokens       IDTokenGenerator
	clientID       string
	hasCredentials bool
	logger         zerolog.Logger
}

func New(checkout Checkout, idTokens IDTokenGenerator, cfg *env.Config, logger zerolog.Logger) *Handlers {
	return &Handlers{
		checkout:       checkout,
		idTokens:       idTokens,
		clientID:       cfg.Credentials.ClientID,
		hasCredentials: cfg.HasCredentials(),
		logger:         logger.With().Str("component", "http").Logger(),
	}
}

func (h *Handlers) Register(app *fiber.App) {
	app.Get("/", h.HandleCheckoutPage)
	app.Get("/upsale", h.HandleUpsalePage)
	app.Get("/healthz", h.HandleHealth)

	api := app.Group("/api")
	api.Post("/orders", h.HandleCreateOrder)
	api.Post("/orders/:orderID/capture", h.HandleCaptureOrder)
	api.Get("/upsale/:customerId/:amount", h.HandleUpsale)
}

func (h *Handlers) HandleCheckoutPage(c *fiber.Ctx) error {
	page := dto.CheckoutPage{ClientID: h.clientID}
	if customerID := c.Query("customerID"); customerID != "" && h.hasCredentials {
		token, err := h.idTokens.GenerateUserIDToken(c.UserContext(), customerID)
		if err != nil {
			h.logger.Warn().Err(err).Str("customer_id", customerID).Msg("rendering checkout without id token")
		} else {
			page.UserIDToken = token
		}
	}
	return c.Render("checkout", page)
}

func (h *Handlers) HandleUpsalePage(c *fiber.Ctx) error {
	return c.Render("upsale", dto.CheckoutPage{ClientID: h.clientID})
}

func (h *Handlers) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) HandleCreateOrder(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body."})
		}
	}

	res, err := h.checkout.CreateOrder(c.UserContext(), req.Cart)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create order")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to create order."})
	}
	return relay(c, res)
}

func (h *Handlers) HandleCaptureOrder(c *fiber.Ctx) error {
	orderID := c.Params("orderID")
	res, err := h.checkout.CaptureOrder(c.UserContext(), orderID)
	if err != nil {
		h.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to capture order")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to capture order."})
	}
	h.logger.Info().Str("order_id", orderID).Int("status", res.StatusCode).Msg("capture response")
	return relay(c, res)
}

func (h *Handlers) HandleUpsale(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	amount := c.Params("amount")

	res, err := h.checkout.HandleUpsale(c.UserContext(), customerID, amount, c.Get(IdempotencyKeyHeader))
	if err != nil {
		h.logger.Error().Err(err).Str("customer_id", customerID).Msg("upsale transaction failed")
		return upsaleError(c, err)
	}
	return relay(c, res)
}

func relay(c *fiber.Ctx, res *paypal.Response) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(res.StatusCode).Send(res.Body)
}

var upsaleMessages = map[paypal.Kind]string{
	paypal.KindEmptyVault:         "No stored payment method for this customer.",
	paypal.KindMissingCredentials: "Payment provider credentials are not configured.",
	paypal.KindUpstreamHTTP:       "Payment provider rejected the request.",
	paypal.KindNetwork:            "Payment provider is unreachable.",
	paypal.KindInvalidResponse:    "Payment provider returned an unexpected response.",
	paypal.KindInternal:           "Upsale transaction failed.",
}

// upsaleError turns a failed upsale into a client response. Provider errors
// with a JSON body are relayed with their own status.
func upsaleError(c *fiber.Ctx, err error) error {
	var upstream *paypal.UpstreamError
	if errors.As(err, &upstream) && json.Valid(upstream.Body) {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(upstream.StatusCode).Send(upstream.Body)
	}

	kind := paypal.KindOf(err)
	status := http.StatusBadGateway
	switch kind {
	case paypal.KindEmptyVault:
		status = http.StatusUnprocessableEntity
	case paypal.KindMissingCredentials, paypal.KindInternal:
		status = http.StatusInternalServerError
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: string(kind), Message: upsaleMessages[kind]})
}
