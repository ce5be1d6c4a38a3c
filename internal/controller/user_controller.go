package controller

import (
	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/pkg/serverutils"
	"ai-imagegen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	DeleteAccount(ctx *fiber.Ctx) error
	GetCreditBalance(ctx *fiber.Ctx) error
	AddCredits(ctx *fiber.Ctx) error
}

type userController struct {
	userService   service.IUserService
	jwtMiddleware fiber.Handler
}

func NewUserController(userService service.IUserService, jwtMiddleware fiber.Handler) IUserController {
	return &userController{
		userService:   userService,
		jwtMiddleware: jwtMiddleware,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user")
	h.Use(c.jwtMiddleware)
	h.Get("/profile", c.GetProfile)
	h.Put("/profile", c.UpdateProfile)
	h.Delete("/profile", c.DeleteAccount)
	h.Get("/credits", c.GetCreditBalance)

	admin := r.Group("/admin")
	admin.Use(c.jwtMiddleware, serverutils.RequireAdmin)
	admin.Post("/credits", c.AddCredits)
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	res, err := c.userService.GetProfile(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.userService.UpdateProfile(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *userController) DeleteAccount(ctx *fiber.Ctx) error {
	if err := c.userService.DeleteAccount(ctx.Context(), currentUserId(ctx)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Account deleted", nil))
}

func (c *userController) GetCreditBalance(ctx *fiber.Ctx) error {
	res, err := c.userService.GetCreditBalance(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get credit balance", res))
}

func (c *userController) AddCredits(ctx *fiber.Ctx) error {
	var req dto.AddCreditsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.userService.AddCredits(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Credits added", res))
}
