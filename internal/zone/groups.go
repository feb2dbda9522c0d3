package zone

import (
	"sort"

	"github.com/nricciar/em-dns-manager/internal/config"
)

// fallbackOrder sorts record types without a configured precedence last.
const fallbackOrder = 9

// Group is a set of records sharing one owner name and type, presented as
// a single record set with multiple values.
type Group struct {
	Name    string // relative owner name
	Type    Type
	TTL     uint32
	Records []Record
}

// Groups collapses the zone's records into (name, type) groups ordered for
// presentation: SOA first, then the policy's type precedence, secondarily
// by owner name. Record order inside a group is preserved.
func Groups(z *Zone, policy config.Record) []Group {
	type groupKey struct {
		name string
		typ  Type
	}

	var (
		index = make(map[groupKey]int)
		out   []Group
	)

	for _, r := range z.Records {
		key := groupKey{name: r.Name, typ: r.Type()}

		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i

			out = append(out, Group{Name: r.Name, Type: r.Type(), TTL: r.TTL})
		}

		out[i].Records = append(out[i].Records, r)
	}

	precedence := func(t Type) int {
		if t == TypeSOA {
			return 0
		}

		if settings, ok := policy[string(t)]; ok && settings.Order > 0 {
			return settings.Order
		}

		return fallbackOrder
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := precedence(out[i].Type), precedence(out[j].Type)
		if pi != pj {
			return pi < pj
		}

		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}

		return out[i].Type < out[j].Type
	})

	return out
}
