package zone

import (
	"regexp"
	"strings"
)

// ipv4Re matches a dotted-quad IPv4 literal, which is never expanded
// against a zone origin.
var ipv4Re = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)

// Expand returns the fully qualified form of a name or address relative to
// the zone origin. IPv4 literals and already absolute names pass through
// unchanged; "@" denotes the zone apex. Expand is idempotent.
func Expand(value, origin string) string {
	if ipv4Re.MatchString(value) {
		return value
	}

	if value == "@" {
		return origin
	}

	if strings.HasSuffix(value, ".") {
		return value
	}

	return value + "." + origin
}

// Relativize is the inverse of Expand: it strips the owning zone's origin
// suffix so stored records use the shortest unambiguous form. The apex
// collapses to "@". Names outside the zone pass through unchanged.
func Relativize(value, origin string) string {
	if value == origin {
		return "@"
	}

	if strings.HasSuffix(value, "."+origin) {
		rel := strings.TrimSuffix(value, "."+origin)
		if rel == "" {
			return "@"
		}

		return rel
	}

	return value
}

// IsReverse checks if the given zone origin is a reverse DNS zone.
func IsReverse(origin string) (reverse bool) {
	origin = strings.ToLower(origin)

	switch {
	case strings.HasSuffix(origin, "ip6.arpa."):
		reverse = true

	case strings.HasSuffix(origin, "in-addr.arpa."):
		reverse = true
	}

	return
}
