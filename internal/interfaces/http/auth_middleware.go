package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	"github.com/jhoicas/retail-pos-api/pkg/jwt"
)

// Locals keys con los claims del token en Fiber.
const (
	LocalUserID     = "user_id"
	LocalBusinessID = "business_id"
	LocalRole       = "role"
	LocalLocation   = "location"
)

// AuthMiddleware valida el Bearer Token JWT y copia user_id, business_id, role y location a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return respond(c, fiber.StatusUnauthorized, CodeUnauthorized, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respond(c, fiber.StatusUnauthorized, CodeUnauthorized, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return respond(c, fiber.StatusUnauthorized, CodeUnauthorized, "token vacío")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return respond(c, fiber.StatusUnauthorized, CodeUnauthorized, "token inválido o expirado")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalBusinessID, claims.BusinessID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalLocation, claims.Location)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe ir después de AuthMiddleware.
// Token sin rol: 401 MISSING_ROLE. Rol no permitido: 403 FORBIDDEN.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return respond(c, fiber.StatusUnauthorized, "MISSING_ROLE", "el token no contiene rol")
		}
		if _, ok := allowed[role]; !ok {
			return respond(c, fiber.StatusForbidden, CodeForbidden, "el rol "+role+" no tiene acceso a este recurso")
		}
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetBusinessID devuelve el negocio del usuario; vacío si aún no tiene uno asignado.
func GetBusinessID(c *fiber.Ctx) string { return localString(c, LocalBusinessID) }

// GetRole devuelve el rol firmado en el token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetLocation devuelve la ubicación de trabajo del usuario.
func GetLocation(c *fiber.Ctx) string { return localString(c, LocalLocation) }

// actor arma el usecase.Actor con los claims del token.
func actor(c *fiber.Ctx) usecase.Actor {
	return usecase.Actor{UserID: GetUserID(c), Role: GetRole(c), BusinessID: GetBusinessID(c)}
}
