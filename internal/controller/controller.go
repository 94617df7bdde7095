package controller

import (
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func currentUser(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return userId, nil
}

func currentIdentity(ctx *fiber.Ctx) (service.Identity, error) {
	userId, err := currentUser(ctx)
	if err != nil {
		return service.Identity{}, err
	}
	return service.Identity{
		UserId:   userId,
		Email:    serverutils.LocalString(ctx, serverutils.LocalEmail),
		FullName: serverutils.LocalString(ctx, serverutils.LocalName),
	}, nil
}

func idParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return serverutils.ValidateRequest(out)
}
