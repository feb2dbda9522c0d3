package zone

// Zone is a hosted zone: identity, ownership, and the ordered record list.
// Record order is insertion order and defines the serialization order in
// the zone file. A well-formed zone carries exactly one SOA record.
type Zone struct {
	// Key is the opaque unique identifier allocated at creation. Immutable.
	Key string

	// Origin is the fully qualified zone name, always ending in a dot.
	// Unique among zones.
	Origin string

	// Ref is the caller supplied reference string.
	Ref string

	// Comment is free text supplied at creation.
	Comment string

	// Owner identifies the account that created the zone. Immutable.
	Owner int

	// TTL is the zone default TTL.
	TTL uint32

	// Records in insertion order.
	Records []Record
}

// SOA returns the zone's SOA record.
func (z *Zone) SOA() (Record, bool) {
	for _, r := range z.Records {
		if r.Type() == TypeSOA {
			return r, true
		}
	}

	return Record{}, false
}

// NameServers returns the fully expanded targets of the apex NS records,
// in record order.
func (z *Zone) NameServers() []string {
	var servers []string

	for _, r := range z.Records {
		if r.Type() != TypeNS || r.FullName(z.Origin) != z.Origin {
			continue
		}

		servers = append(servers, r.Value(z.Origin))
	}

	return servers
}

// Snapshot returns a copy that stays stable while the original keeps
// changing. Record payloads are immutable values, so copying the record
// slice is enough.
func (z *Zone) Snapshot() *Zone {
	c := *z
	c.Records = append([]Record(nil), z.Records...)

	return &c
}

// AddRecord appends a record. Identical records are appended as-is: the
// protocol performs no deduplication, creating the same record twice
// produces two rows.
func (z *Zone) AddRecord(r Record) {
	z.Records = append(z.Records, r)
}

// RemoveMatching removes every record whose fully expanded owner name,
// type, and payload match the given probe, and returns how many were
// removed. Matching zero records is not an error: deletion is idempotent.
// TTL is not part of the match.
func (z *Zone) RemoveMatching(name string, t Type, data RData) int {
	full := Expand(name, z.Origin)

	var (
		kept    = z.Records[:0]
		removed int
	)

	for _, r := range z.Records {
		if r.Type() == t && r.FullName(z.Origin) == full && r.Data == data {
			removed++
			continue
		}

		kept = append(kept, r)
	}

	z.Records = kept

	return removed
}
