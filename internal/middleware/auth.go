package middleware

import (
	"os"
	"strings"

	"github.com/chatterboxhq/chatterbox-backend/internal/httpx"
	"github.com/chatterboxhq/chatterbox-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthRequired validates the bearer token and stores the user identity in
// request locals. The websocket route reuses this so the upgrade request is
// already authenticated before the session handler runs; clients that cannot
// set headers pass the token as a ?token query parameter instead.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenString string
		if authHeader := c.Get("Authorization"); authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return httpx.Unauthorized(c, "invalid_authorization", "Invalid authorization format")
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return httpx.Unauthorized(c, "missing_access_token", "Missing access token")
		}

		token, err := jwt.ParseWithClaims(tokenString, &service.Claims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			return httpx.Unauthorized(c, "invalid_access_token", "Invalid or expired token")
		}

		claims, ok := token.Claims.(*service.Claims)
		if !ok || claims.UserID == 0 {
			return httpx.Unauthorized(c, "invalid_access_token", "Invalid token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}
