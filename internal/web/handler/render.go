// Package handler holds shapes and helpers shared by all web handlers.
package handler

import (
	"encoding/xml"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// RenderXML serializes v and writes it as the response body with the XML
// declaration prepended.
func RenderXML(c *fiber.Ctx, status int, v interface{}) error {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to serialize response")
	}

	c.Set(fiber.HeaderContentType, "application/xml")

	return c.Status(status).SendString(xml.Header + string(body) + "\n")
}

// Owner returns the authenticated owner id placed in locals by the auth
// middleware.
func Owner(c *fiber.Ctx) int {
	owner, _ := c.Locals(LocalsOwner).(int)

	return owner
}
