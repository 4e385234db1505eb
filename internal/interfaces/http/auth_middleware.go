package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-engine/internal/application/dto"
	"github.com/jhoicas/invoice-engine/pkg/jwt"
)

// Locals keys para ClientID y Role en Fiber.
const (
	LocalClientID = "client_id"
	LocalRole     = "role"
)

// TokenVerifier valida un token y devuelve sus claims (implementado por *jwt.Signer).
type TokenVerifier interface {
	Verify(token string) (jwt.Claims, error)
}

// AuthMiddleware exige un Bearer token válido y deja ClientID y Role en c.Locals.
// Un token bien firmado con un rol que el emisor no reconoce responde 403.
func AuthMiddleware(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "se requiere Authorization: Bearer <token>"})
		}
		claims, err := tokens.Verify(tokenString)
		switch {
		case errors.Is(err, jwt.ErrUnknownRole):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol del token no está reconocido"})
		case err != nil:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalClientID, claims.ClientID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// bearerToken extrae el token de "Bearer <token>"; el esquema no distingue mayúsculas.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetClientID devuelve el ClientID del contexto (después del middleware de auth).
func GetClientID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalClientID).(string)
	return s
}

// GetRole devuelve el rol del token (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
