// Package zone implements the hosted zone domain model: typed resource
// records, name canonicalization relative to a zone origin, per-type
// validation with collected error messages, and record grouping for
// presentation.
package zone

import (
	"fmt"
)

// Class is the only record class the service handles.
const Class = "IN"

// Type is a DNS resource record type.
type Type string

// Record types known to the service.
const (
	TypeSOA   Type = "SOA"
	TypeNS    Type = "NS"
	TypeA     Type = "A"
	TypeAAAA  Type = "AAAA"
	TypeCNAME Type = "CNAME"
	TypeMX    Type = "MX"
	TypePTR   Type = "PTR"
	TypeTXT   Type = "TXT"
	TypeSRV   Type = "SRV"
)

// RData is the typed payload of a resource record. Each record type with
// structurally different required fields has its own implementation, so a
// record can not be constructed with its type-specific fields missing.
type RData interface {
	// Type returns the record type this payload belongs to.
	Type() Type

	// Value renders the payload in presentation form, with host names
	// expanded against the given zone origin.
	Value(origin string) string
}

// SOAData is the structured payload of the zone's SOA record.
type SOAData struct {
	NS      string // primary nameserver, host form
	Contact string // zone contact, host form (root.<origin>)
	Serial  string
	Refresh int
	Retry   int
	Expire  int
	Minimum int
}

// Type implements RData.
func (d SOAData) Type() Type { return TypeSOA }

// Value implements RData.
func (d SOAData) Value(origin string) string {
	return fmt.Sprintf("%s %s %s %d %d %d %d",
		Expand(d.NS, origin),
		Expand(d.Contact, origin),
		d.Serial,
		d.Refresh,
		d.Retry,
		d.Expire,
		d.Minimum,
	)
}

// MXData is the payload of an MX record.
type MXData struct {
	Priority int
	Target   string
}

// Type implements RData.
func (d MXData) Type() Type { return TypeMX }

// Value implements RData.
func (d MXData) Value(origin string) string {
	return fmt.Sprintf("%d %s", d.Priority, Expand(d.Target, origin))
}

// SRVData is the payload of an SRV record.
type SRVData struct {
	Priority int
	Weight   int
	Port     int
	Target   string
}

// Type implements RData.
func (d SRVData) Type() Type { return TypeSRV }

// Value implements RData.
func (d SRVData) Value(origin string) string {
	return fmt.Sprintf("%d %d %d %s", d.Priority, d.Weight, d.Port, Expand(d.Target, origin))
}

// HostData is the payload of the host-name shaped record types
// (NS, CNAME, PTR).
type HostData struct {
	Kind   Type
	Target string
}

// Type implements RData.
func (d HostData) Type() Type { return d.Kind }

// Value implements RData.
func (d HostData) Value(origin string) string {
	return Expand(d.Target, origin)
}

// AddrData is the payload of the address record types (A, AAAA).
type AddrData struct {
	Kind Type
	IP   string
}

// Type implements RData.
func (d AddrData) Type() Type { return d.Kind }

// Value implements RData.
func (d AddrData) Value(_ string) string {
	return d.IP
}

// TXTData is the free-text payload of a TXT record.
type TXTData struct {
	Text string
}

// Type implements RData.
func (d TXTData) Type() Type { return TypeTXT }

// Value implements RData.
func (d TXTData) Value(_ string) string {
	return d.Text
}

// Record is a single resource record inside a zone. The owner name is kept
// in its shortest unambiguous form relative to the zone origin ("@" for the
// apex); presentation expands it back via Expand.
type Record struct {
	Name string
	TTL  uint32
	Data RData
}

// Type returns the record type.
func (r Record) Type() Type {
	return r.Data.Type()
}

// FullName returns the fully qualified owner name of the record.
func (r Record) FullName(origin string) string {
	return Expand(r.Name, origin)
}

// Value renders the record payload in presentation form.
func (r Record) Value(origin string) string {
	return r.Data.Value(origin)
}
