package directory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nricciar/em-dns-manager/internal/zone"
)

func newZone(origin, key string, owner int) *zone.Zone {
	return &zone.Zone{Key: key, Origin: origin, Owner: owner}
}

func TestPutRemoveLookup(t *testing.T) {
	d := New()
	z := newZone("example.com.", "KEY1", 1)

	d.Put(z)

	got, ok := d.ByKey("KEY1", 1)
	require.True(t, ok)
	assert.Equal(t, z, got)

	got, ok = d.ByName("example.com.")
	require.True(t, ok)
	assert.Equal(t, z, got)

	d.Remove("example.com.")

	_, ok = d.ByKey("KEY1", 1)
	assert.False(t, ok)
	_, ok = d.ByName("example.com.")
	assert.False(t, ok)
}

func TestByKeyOwnership(t *testing.T) {
	d := New()
	d.Put(newZone("example.com.", "KEY1", 1))

	// another owner's key behaves exactly like a missing key
	_, ok := d.ByKey("KEY1", 2)
	assert.False(t, ok)

	_, ok = d.ByKey("NOPE", 1)
	assert.False(t, ok)
}

func TestPutReplacesByOrigin(t *testing.T) {
	d := New()
	d.Put(newZone("example.com.", "KEY1", 1))
	d.Put(newZone("example.com.", "KEY2", 1))

	_, ok := d.ByKey("KEY1", 1)
	assert.False(t, ok)

	z, ok := d.ByKey("KEY2", 1)
	require.True(t, ok)
	assert.Equal(t, "example.com.", z.Origin)

	page := d.List(1, 0, "")
	assert.Len(t, page.Zones, 1)
}

func TestListOwnerScoped(t *testing.T) {
	d := New()
	d.Put(newZone("a.example.", "KA", 1))
	d.Put(newZone("b.example.", "KB", 2))
	d.Put(newZone("c.example.", "KC", 1))

	page := d.List(1, 0, "")
	require.Len(t, page.Zones, 2)
	assert.Equal(t, "a.example.", page.Zones[0].Origin)
	assert.Equal(t, "c.example.", page.Zones[1].Origin)
	assert.False(t, page.Truncated)
}

func TestListPaginationCoversEveryZoneOnce(t *testing.T) {
	d := New()

	for i := 0; i < 25; i++ {
		owner := 1
		if i%5 == 0 {
			owner = 2
		}

		d.Put(newZone(fmt.Sprintf("zone%02d.example.", i), fmt.Sprintf("KEY%02d", i), owner))
	}

	var (
		seen   []string
		marker string
		pages  int
	)

	for {
		page := d.List(1, 7, marker)
		pages++

		for _, z := range page.Zones {
			seen = append(seen, z.Origin)
		}

		if !page.Truncated {
			break
		}

		require.NotEmpty(t, page.NextMarker)
		marker = page.NextMarker
	}

	assert.Equal(t, 3, pages)
	require.Len(t, seen, 20)

	// every origin exactly once, in sorted order
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i-1], seen[i])
	}
}

func TestListUnknownMarker(t *testing.T) {
	d := New()
	d.Put(newZone("example.com.", "KEY1", 1))

	page := d.List(1, 10, "NOSUCHKEY")
	assert.Empty(t, page.Zones)
	assert.False(t, page.Truncated)
}

func TestListClampsPageSize(t *testing.T) {
	d := New()

	for i := 0; i < 120; i++ {
		d.Put(newZone(fmt.Sprintf("zone%03d.example.", i), fmt.Sprintf("KEY%03d", i), 1))
	}

	page := d.List(1, 500, "")
	assert.Len(t, page.Zones, MaxPageSize)
	assert.True(t, page.Truncated)

	// out of range requests are clamped before being echoed back
	assert.Equal(t, MaxPageSize, page.MaxItems)
	assert.Equal(t, 7, d.List(1, 7, "").MaxItems)
}

func TestLockIsStablePerOrigin(t *testing.T) {
	d := New()

	assert.Same(t, d.Lock("example.com."), d.Lock("example.com."))
	assert.NotSame(t, d.Lock("example.com."), d.Lock("example.org."))
}
