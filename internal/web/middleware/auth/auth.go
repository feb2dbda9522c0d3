// Package auth resolves the caller's account from the access key carried
// in the authorization header. Every route behind it sees an owner id in
// locals; requests without a resolvable key never reach a handler.
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/nricciar/em-dns-manager/internal/apierr"
	"github.com/nricciar/em-dns-manager/internal/config"
	"github.com/nricciar/em-dns-manager/internal/web/handler"
)

// HeaderAmznAuthorization is the alternate authorization header some
// clients send instead of the standard one.
const HeaderAmznAuthorization = "X-Amzn-Authorization"

// New returns the auth middleware for the given key table.
func New(cfg *config.Config) fiber.Handler {
	owners := make(map[string]int, len(cfg.Auth.Keys))
	for _, k := range cfg.Auth.Keys {
		owners[k.KeyID] = k.Owner
	}

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			header = c.Get(HeaderAmznAuthorization)
		}

		keyID := ExtractKeyID(header)
		if keyID == "" {
			return apierr.MissingAuthenticationToken
		}

		owner, ok := owners[keyID]
		if !ok {
			log.Warn().Str("access_key", keyID).Msg("unknown access key")

			return apierr.MissingAuthenticationToken
		}

		c.Locals(handler.LocalsOwner, owner)

		return c.Next()
	}
}

// ExtractKeyID pulls the access key id out of an authorization header.
// Both header styles are accepted: the "AWSAccessKeyId=KEY,..." parameter
// form and the "AWS KEY:signature" form. Signatures are not verified.
func ExtractKeyID(header string) string {
	if header == "" {
		return ""
	}

	if i := strings.Index(header, "AWSAccessKeyId="); i >= 0 {
		rest := header[i+len("AWSAccessKeyId="):]
		if j := strings.IndexAny(rest, ", "); j >= 0 {
			rest = rest[:j]
		}

		return rest
	}

	if rest, ok := strings.CutPrefix(header, "AWS "); ok {
		key, _, _ := strings.Cut(rest, ":")

		return strings.TrimSpace(key)
	}

	return ""
}
