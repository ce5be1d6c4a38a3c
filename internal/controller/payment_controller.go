package controller

import (
	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/serverutils"
	"ai-imagegen-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	Initiate(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
	ListTransactions(ctx *fiber.Ctx) error
	GetTransaction(ctx *fiber.Ctx) error
	Refund(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	paymentService service.IPaymentService
	jwtMiddleware  fiber.Handler
	log            logger.ILogger
}

func NewPaymentController(paymentService service.IPaymentService, jwtMiddleware fiber.Handler, log logger.ILogger) IPaymentController {
	return &paymentController{
		paymentService: paymentService,
		jwtMiddleware:  jwtMiddleware,
		log:            log,
	}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payments")
	h.Use(c.jwtMiddleware)
	h.Post("/initiate", c.Initiate)
	h.Post("/verify", c.Verify)
	h.Get("/transactions", c.ListTransactions)
	h.Get("/transactions/:transactionId", c.GetTransaction)

	admin := r.Group("/admin/payments")
	admin.Use(c.jwtMiddleware, serverutils.RequireAdmin)
	admin.Post("/:transactionId/refund", c.Refund)

	// Gateways call this unauthenticated; signatures are checked per
	// gateway inside the service.
	r.Post("/webhooks/:gateway", c.Webhook)
}

func (c *paymentController) Initiate(ctx *fiber.Ctx) error {
	var req dto.InitiatePaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.paymentService.Initiate(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Payment initiated", res))
}

func (c *paymentController) Verify(ctx *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.paymentService.Verify(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Payment verified", res))
}

func (c *paymentController) ListTransactions(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.paymentService.ListTransactions(ctx.Context(), currentUserId(ctx), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list transactions", res))
}

func (c *paymentController) GetTransaction(ctx *fiber.Ctx) error {
	res, err := c.paymentService.GetTransaction(ctx.Context(), currentUserId(ctx), ctx.Params("transactionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get transaction", res))
}

func (c *paymentController) Refund(ctx *fiber.Ctx) error {
	res, err := c.paymentService.Refund(ctx.Context(), ctx.Params("transactionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Transaction refunded", res))
}

// Webhook always answers 200 so gateways stop retrying; failures are
// logged and the transaction stays pending for the next delivery.
func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	gatewayName := ctx.Params("gateway")

	headers := make(map[string]string)
	for key, values := range ctx.GetReqHeaders() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	if err := c.paymentService.HandleWebhook(ctx.Context(), gatewayName, ctx.Body(), headers); err != nil {
		c.log.Warn("payment", "Webhook processing failed", map[string]interface{}{
			"gateway": gatewayName,
			"error":   err.Error(),
		})
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
}
