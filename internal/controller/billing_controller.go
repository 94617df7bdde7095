package controller

import (
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	Subscription(ctx *fiber.Ctx) error
}

type billingController struct {
	service service.IBillingService
}

func NewBillingController(service service.IBillingService) IBillingController {
	return &billingController{service: service}
}

func (c *billingController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/billing")
	// Providers call the webhook without a user token.
	h.Post("webhook", c.Webhook)
	h.Post("checkout", auth, c.Checkout)
	h.Get("subscription", auth, c.Subscription)
}

func (c *billingController) Checkout(ctx *fiber.Ctx) error {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	var req dto.CheckoutRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.service.Checkout(ctx.Context(), identity, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create checkout", res))
}

// Webhook acknowledges every delivery it could process, including ignored
// and duplicate ones. Anything else is a 400 so the provider retries.
func (c *billingController) Webhook(ctx *fiber.Ctx) error {
	// fasthttp reuses the body buffer after the handler returns.
	payload := append([]byte(nil), ctx.Body()...)

	signature := ""
	if header := c.service.SignatureHeader(); header != "" {
		signature = ctx.Get(header)
	}

	if _, err := c.service.HandleWebhook(ctx.Context(), payload, signature); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
	}

	return ctx.JSON(dto.WebhookResponse{Received: true})
}

func (c *billingController) Subscription(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Subscription(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get subscription", res))
}
