// Package request holds the per-request helpers shared by the API handlers.
package request

import (
	"context"
	"time"

	"wms-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// Context derives the operation context from the request, bounded by
// timeout.
func Context(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), timeout)
}

// ID parses the :id path parameter.
func ID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return 0, apperr.Invalid("id", "must be a non-negative integer")
	}
	return uint(id), nil
}

// Body decodes the JSON body into v.
func Body(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return apperr.Invalid("body", "invalid request body: %v", err)
	}
	return nil
}
