package controller

import (
	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/pkg/serverutils"
	"ai-imagegen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IImageJobController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	GetJob(ctx *fiber.Ctx) error
	ListJobs(ctx *fiber.Ctx) error
}

type imageJobController struct {
	jobService    service.IImageJobService
	jwtMiddleware fiber.Handler
}

func NewImageJobController(jobService service.IImageJobService, jwtMiddleware fiber.Handler) IImageJobController {
	return &imageJobController{
		jobService:    jobService,
		jwtMiddleware: jwtMiddleware,
	}
}

func (c *imageJobController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/images")
	h.Use(c.jwtMiddleware)
	h.Post("/generate", c.Generate)
	h.Get("/jobs", c.ListJobs)
	h.Get("/jobs/:id", c.GetJob)
}

func (c *imageJobController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.jobService.Generate(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Image generation finished", res))
}

func (c *imageJobController) GetJob(ctx *fiber.Ctx) error {
	jobId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid job id"))
	}

	res, err := c.jobService.GetJob(ctx.Context(), currentUserId(ctx), jobId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get job", res))
}

func (c *imageJobController) ListJobs(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.jobService.ListJobs(ctx.Context(), currentUserId(ctx), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list jobs", res))
}
