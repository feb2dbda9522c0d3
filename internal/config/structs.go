package config

import (
	"github.com/nricciar/em-dns-manager/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	Webserver Webserver
	Log       logger.Log
	DNS       DNS
	Journal   Journal
	Record    Record
	Auth      Auth
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver
}

// DNS holds the zone seeding and storage settings.
type DNS struct {
	// Nameservers is the pool of authoritative nameservers. Zone creation
	// seeds one NS record per entry and picks the SOA primary from the pool.
	Nameservers []string

	// TTL is the default zone TTL in seconds.
	TTL uint32

	// SOA timers in seconds.
	Refresh int
	Retry   int
	Expire  int
	Minimum int

	// ZonePath is the directory holding the zone files. Deleted zones are
	// relocated into its "deleted" subdirectory.
	ZonePath string
}

// Journal holds the change journal settings.
type Journal struct {
	// Path to the sqlite database file recording every mutating call.
	Path string
}

// RecordTypeSettings controls where a record type may be used.
type RecordTypeSettings struct {
	// Forward allows the type in forward zones.
	Forward bool
	// Reverse allows the type in reverse (arpa) zones.
	Reverse bool
	// Order is the presentation precedence within a zone listing.
	// Lower sorts first; SOA is always first regardless.
	Order int
}

// Record maps a record type to its per-deployment policy.
type Record map[string]RecordTypeSettings

// AccessKey maps a protocol access key id to the owning account.
type AccessKey struct {
	KeyID string
	Owner int
}

// Auth holds the resolved-owner boundary settings.
type Auth struct {
	Keys []AccessKey
}
