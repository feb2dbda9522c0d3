package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nricciar/em-dns-manager/internal/config"
)

func TestGroups(t *testing.T) {
	z := testZone()
	z.AddRecord(Record{Name: "www", TTL: 300, Data: AddrData{Kind: TypeA, IP: "192.0.2.1"}})
	z.AddRecord(Record{Name: "mail", TTL: 300, Data: AddrData{Kind: TypeA, IP: "192.0.2.3"}})
	z.AddRecord(Record{Name: "www", TTL: 300, Data: AddrData{Kind: TypeA, IP: "192.0.2.2"}})
	z.AddRecord(Record{Name: "@", TTL: 300, Data: MXData{Priority: 10, Target: "mail"}})

	groups := Groups(z, config.DefaultRecordPolicy())
	require.Len(t, groups, 5)

	// SOA always leads, then the configured type precedence
	assert.Equal(t, TypeSOA, groups[0].Type)
	assert.Equal(t, TypeNS, groups[1].Type)

	// same type sorts by owner name
	assert.Equal(t, "mail", groups[2].Name)
	assert.Equal(t, TypeA, groups[2].Type)
	assert.Equal(t, "www", groups[3].Name)

	// records sharing name and type collapse into one group, in order
	require.Len(t, groups[3].Records, 2)
	assert.Equal(t, "192.0.2.1", groups[3].Records[0].Value(z.Origin))
	assert.Equal(t, "192.0.2.2", groups[3].Records[1].Value(z.Origin))

	assert.Equal(t, TypeMX, groups[4].Type)
}
