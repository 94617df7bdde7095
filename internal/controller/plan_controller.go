package controller

import (
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"
	"notekeeper-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
)

type IPlanController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Usage(ctx *fiber.Ctx) error
	Plans(ctx *fiber.Ctx) error
}

type planController struct {
	service service.IPlanService
	hub     *websocket.Hub
}

func NewPlanController(service service.IPlanService, hub *websocket.Hub) IPlanController {
	return &planController{service: service, hub: hub}
}

func (c *planController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Get("/plans", c.Plans)

	h := r.Group("/plan")
	h.Use(auth)
	h.Get("usage", c.Usage)
	if c.hub != nil {
		h.Get("ws", websocket.RequireUpgrade, c.hub.Handler())
	}
}

func (c *planController) Usage(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Usage(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get usage", res))
}

func (c *planController) Plans(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get plans", c.service.Plans()))
}
