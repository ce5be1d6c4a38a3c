package controller

import (
	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/pkg/serverutils"
	"ai-imagegen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateThread(ctx *fiber.Ctx) error
	ListThreads(ctx *fiber.Ctx) error
	GetThread(ctx *fiber.Ctx) error
	RenameThread(ctx *fiber.Ctx) error
	AppendMessage(ctx *fiber.Ctx) error
	DeleteThread(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService   service.IChatService
	jwtMiddleware fiber.Handler
}

func NewChatController(chatService service.IChatService, jwtMiddleware fiber.Handler) IChatController {
	return &chatController{
		chatService:   chatService,
		jwtMiddleware: jwtMiddleware,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/threads")
	h.Use(c.jwtMiddleware)
	h.Post("", c.CreateThread)
	h.Get("", c.ListThreads)
	h.Get(":id", c.GetThread)
	h.Put(":id", c.RenameThread)
	h.Post(":id/messages", c.AppendMessage)
	h.Delete(":id", c.DeleteThread)
}

func (c *chatController) CreateThread(ctx *fiber.Ctx) error {
	var req dto.CreateThreadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.CreateThread(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Thread created", res))
}

func (c *chatController) ListThreads(ctx *fiber.Ctx) error {
	res, err := c.chatService.ListThreads(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list threads", res))
}

func (c *chatController) GetThread(ctx *fiber.Ctx) error {
	threadId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid thread id"))
	}

	res, err := c.chatService.GetThread(ctx.Context(), currentUserId(ctx), threadId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get thread", res))
}

func (c *chatController) RenameThread(ctx *fiber.Ctx) error {
	threadId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid thread id"))
	}

	var req dto.RenameThreadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.RenameThread(ctx.Context(), currentUserId(ctx), threadId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Thread renamed", res))
}

func (c *chatController) AppendMessage(ctx *fiber.Ctx) error {
	threadId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid thread id"))
	}

	var req dto.AppendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.AppendMessage(ctx.Context(), currentUserId(ctx), threadId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message appended", res))
}

func (c *chatController) DeleteThread(ctx *fiber.Ctx) error {
	threadId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid thread id"))
	}

	if err := c.chatService.DeleteThread(ctx.Context(), currentUserId(ctx), threadId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Thread deleted", nil))
}
