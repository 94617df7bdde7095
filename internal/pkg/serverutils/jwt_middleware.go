package serverutils

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalName   = "full_name"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// NewJwtMiddleware verifies an HS256 bearer token and stores its identity
// claims in ctx.Locals. Websocket upgrades may pass the token as ?token=
// because browsers cannot set headers on them.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}

		userID, _ := claims["user_id"].(string)
		if _, err := uuid.Parse(userID); err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}

		ctx.Locals(LocalUserID, userID)
		if email, ok := claims["email"].(string); ok {
			ctx.Locals(LocalEmail, email)
		}
		if name, ok := claims["full_name"].(string); ok {
			ctx.Locals(LocalName, name)
		}
		return ctx.Next()
	}
}

func bearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	if strings.EqualFold(ctx.Get(fiber.HeaderUpgrade), "websocket") {
		return ctx.Query("token")
	}
	return ""
}

// UserID reads the authenticated user id set by the JWT middleware.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals(LocalUserID).(string)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return id, nil
}

func LocalString(ctx *fiber.Ctx, key string) string {
	value, _ := ctx.Locals(key).(string)
	return value
}
