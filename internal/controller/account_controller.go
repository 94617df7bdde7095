package controller

import (
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAccountController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Provision(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type accountController struct {
	service service.IAccountService
}

func NewAccountController(service service.IAccountService) IAccountController {
	return &accountController{service: service}
}

func (c *accountController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/account")
	h.Use(auth)
	h.Post("provision", c.Provision)
	h.Delete("", c.Delete)
}

func (c *accountController) Provision(ctx *fiber.Ctx) error {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Provision(ctx.Context(), identity)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success provision account", res))
}

func (c *accountController) Delete(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), userId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete account", nil))
}
