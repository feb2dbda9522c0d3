// Package requestid stamps every response with the request id and date
// headers the protocol promises, and makes the id available to error
// rendering via locals.
package requestid

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nricciar/em-dns-manager/internal/web/handler"
)

const (
	// HeaderRequestID carries the per-request id on every response.
	HeaderRequestID = "x-amz-request-id"
)

// New returns the request identity middleware.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.New().String()

		c.Locals(handler.LocalsRequestID, id)
		c.Set(HeaderRequestID, id)
		c.Set(fiber.HeaderDate, time.Now().UTC().Format(http.TimeFormat))

		return c.Next()
	}
}
