package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserID reads the authenticated user's id out of the request locals set by
// the JWT middleware.
func UserID(c *fiber.Ctx) (string, error) {
	val := c.Locals("user_id")
	if val == nil {
		val = c.Locals("userID")
	}
	if val == nil {
		return "", errors.New("user id missing")
	}
	if uid, ok := val.(string); ok && strings.TrimSpace(uid) != "" {
		return uid, nil
	}
	return "", errors.New("user id missing")
}

// Context returns the request-scoped context, falling back to Background when
// fiber has none attached.
func Context(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
