package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/apperr"
	"github.com/campusswap/campusswap-api/internal/auth"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Locals keys set by AuthRequired.
const (
	LocalUserID  = "userID"
	LocalTokenID = "tokenID"
)

// AuthRequired validates the Bearer token and requires a live session row
// for its jti, so logout revokes a token before it expires. The
// authenticated user id lands in c.Locals under LocalUserID.
func AuthRequired(jwtService *auth.JWTService, sessions store.SessionStore) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperr.Unauthorized("missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return apperr.Unauthorized("invalid authorization header format")
		}

		claims, err := jwtService.ParseToken(parts[1])
		if err != nil {
			return apperr.Unauthorized("invalid or expired token")
		}

		sess, err := sessions.GetByTokenID(c.Context(), claims.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.Unauthorized("session revoked")
			}
			return apperr.Internal(err)
		}
		if time.Now().After(sess.ExpiresAt) {
			return apperr.Unauthorized("session expired")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalTokenID, claims.ID)
		return c.Next()
	}
}

// UserID returns the authenticated user set by AuthRequired.
func UserID(c fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalUserID).(uuid.UUID)
	return id
}

// TokenID returns the jti of the token that authenticated this request.
func TokenID(c fiber.Ctx) string {
	id, _ := c.Locals(LocalTokenID).(string)
	return id
}
