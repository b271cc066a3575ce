package webapi

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wagerdome/wagerdome/pkg/config"
)

// ErrMissingUserContext is returned when a protected route is reached
// without a verified token in the request context.
var ErrMissingUserContext = errors.New("missing user context")

// Protected verifies the bearer token and stores it in the request context.
// Token issuance (registration, login, password handling) belongs to the
// authentication collaborator; the gateway only verifies.
func Protected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if err.Error() == "missing or malformed JWT" {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Missing or malformed JWT", nil)
			}
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Invalid or expired JWT", nil)
		},
	})
}

// CurrentUserID extracts the verified user identity from the request token.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, ErrMissingUserContext
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrMissingUserContext
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrMissingUserContext
	}
	return uuid.Parse(sub)
}
