package service

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nricciar/em-dns-manager/internal/apierr"
	"github.com/nricciar/em-dns-manager/internal/config"
	"github.com/nricciar/em-dns-manager/internal/directory"
	"github.com/nricciar/em-dns-manager/internal/journal"
	"github.com/nricciar/em-dns-manager/internal/zone"
	"github.com/nricciar/em-dns-manager/internal/zonefile"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := &config.Config{
		DNS: config.DNS{
			Nameservers: []string{"ns1.example.net.", "ns2.example.net."},
			TTL:         86400,
			Refresh:     28800,
			Retry:       7200,
			Expire:      604800,
			Minimum:     86400,
			ZonePath:    t.TempDir(),
		},
		Record: config.DefaultRecordPolicy(),
	}

	jnl, err := journal.Open(filepath.Join(t.TempDir(), "changes.db"))
	require.NoError(t, err, "failed to open test journal")

	store, err := zonefile.NewStore(cfg.DNS.ZonePath)
	require.NoError(t, err, "failed to create test store")

	return New(cfg, directory.New(), store, jnl)
}

func TestCreateZoneSeedsRecords(t *testing.T) {
	svc := newTestService(t)

	z, change, err := svc.CreateZone(1, "example.com.", "myRef", "a comment", []byte("payload"))
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.Equal(t, "example.com.", z.Origin)
	assert.Equal(t, "myRef", z.Ref)
	assert.Equal(t, "a comment", z.Comment)
	assert.NotEmpty(t, z.Key)

	// one SOA plus one NS per configured nameserver
	require.Len(t, z.Records, 3)

	soa, ok := z.SOA()
	require.True(t, ok)

	soaData, ok := soa.Data.(zone.SOAData)
	require.True(t, ok)
	assert.Equal(t, time.Now().UTC().Format("20060102")+"01", soaData.Serial)
	assert.Contains(t, []string{"ns1.example.net.", "ns2.example.net."}, soaData.NS)
	assert.Equal(t, "root.example.com.", soaData.Contact)

	assert.Equal(t, []string{"ns1.example.net.", "ns2.example.net."}, z.NameServers())

	// the zone is immediately visible to its owner
	got, err := svc.GetZone(z.Key, 1)
	require.NoError(t, err)
	assert.Equal(t, z, got)

	// and journaled
	entry, err := svc.GetChange(change.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), entry.Payload)
}

func TestCreateZoneRejectsBadInput(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.CreateZone(1, "not a domain", "myRef", "", nil)
	assert.ErrorIs(t, err, apierr.InvalidDomainName)

	// a missing trailing dot is rejected, not repaired
	_, _, err = svc.CreateZone(1, "example.com", "myRef", "", nil)
	assert.ErrorIs(t, err, apierr.InvalidDomainName)
	assert.Empty(t, svc.ListZones(1, 0, "").Zones)

	_, _, err = svc.CreateZone(1, "example.com.", "bad ref", "", nil)
	assert.ErrorIs(t, err, apierr.InvalidInput)
}

func TestCreateZoneDuplicateOrigin(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.CreateZone(1, "example.com.", "ref1", "", nil)
	require.NoError(t, err)

	// origin uniqueness holds across owners
	_, _, err = svc.CreateZone(2, "example.com.", "ref2", "", nil)
	assert.ErrorIs(t, err, apierr.HostedZoneAlreadyExists)
}

func TestGetZoneOwnership(t *testing.T) {
	svc := newTestService(t)

	z, _, err := svc.CreateZone(1, "example.com.", "myRef", "", nil)
	require.NoError(t, err)

	_, err = svc.GetZone(z.Key, 2)
	assert.ErrorIs(t, err, apierr.AccessDenied)

	_, err = svc.GetZone("NOSUCHKEY", 1)
	assert.ErrorIs(t, err, apierr.AccessDenied)
}

func TestDeleteZone(t *testing.T) {
	svc := newTestService(t)

	z, _, err := svc.CreateZone(1, "example.com.", "myRef", "", nil)
	require.NoError(t, err)

	// not deletable by another owner
	_, err = svc.DeleteZone(z.Key, 2, nil)
	assert.ErrorIs(t, err, apierr.AccessDenied)

	change, err := svc.DeleteZone(z.Key, 1, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, change.ID)

	_, err = svc.GetZone(z.Key, 1)
	assert.ErrorIs(t, err, apierr.AccessDenied)

	// deleting again behaves like a zone that never existed
	_, err = svc.DeleteZone(z.Key, 1, nil)
	assert.ErrorIs(t, err, apierr.AccessDenied)

	// the origin is free for a new zone
	_, _, err = svc.CreateZone(1, "example.com.", "myRef2", "", nil)
	assert.NoError(t, err)
}

func TestChangeRecordSets(t *testing.T) {
	svc := newTestService(t)

	z, _, err := svc.CreateZone(1, "example.com.", "myRef", "", nil)
	require.NoError(t, err)

	change, err := svc.ChangeRecordSets(z.Key, 1, []RecordChange{
		{Action: "CREATE", Record: zone.Input{Name: "www.example.com.", Type: "A", TTL: "300", Value: "192.0.2.1"}},
		{Action: "CREATE", Record: zone.Input{Name: "@", Type: "MX", TTL: "300", Value: "10 mail"}},
	}, []byte("batch"))
	require.NoError(t, err)
	assert.NotEmpty(t, change.ID)

	got, err := svc.GetZone(z.Key, 1)
	require.NoError(t, err)
	assert.Len(t, got.Records, 5)

	// lowercase action and a delete probe built from wire form
	_, err = svc.ChangeRecordSets(z.Key, 1, []RecordChange{
		{Action: "delete", Record: zone.Input{Name: "www", Type: "A", TTL: "600", Value: "192.0.2.1"}},
	}, nil)
	require.NoError(t, err)

	got, err = svc.GetZone(z.Key, 1)
	require.NoError(t, err)
	assert.Len(t, got.Records, 4)

	// deleting a record that is gone is not an error
	_, err = svc.ChangeRecordSets(z.Key, 1, []RecordChange{
		{Action: "DELETE", Record: zone.Input{Name: "www", Type: "A", TTL: "300", Value: "192.0.2.1"}},
	}, nil)
	assert.NoError(t, err)
}

func TestChangeRecordSetsRejectsWholeBatch(t *testing.T) {
	svc := newTestService(t)

	z, _, err := svc.CreateZone(1, "example.com.", "myRef", "", nil)
	require.NoError(t, err)

	_, err = svc.ChangeRecordSets(z.Key, 1, []RecordChange{
		{Action: "CREATE", Record: zone.Input{Name: "good", Type: "A", TTL: "300", Value: "192.0.2.1"}},
		{Action: "CREATE", Record: zone.Input{Name: "bad", Type: "A", TTL: "300", Value: "not-an-ip"}},
		{Action: "UPSERT", Record: zone.Input{Name: "other", Type: "A", TTL: "300", Value: "192.0.2.2"}},
	}, nil)

	var batchErr *apierr.ChangeBatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Len(t, batchErr.Messages, 2)

	// nothing was applied, the valid sub-operation included
	got, err := svc.GetZone(z.Key, 1)
	require.NoError(t, err)
	assert.Len(t, got.Records, 3)
}

func TestChangeRecordSetsOwnership(t *testing.T) {
	svc := newTestService(t)

	z, _, err := svc.CreateZone(1, "example.com.", "myRef", "", nil)
	require.NoError(t, err)

	_, err = svc.ChangeRecordSets(z.Key, 2, []RecordChange{
		{Action: "CREATE", Record: zone.Input{Name: "www", Type: "A", TTL: "300", Value: "192.0.2.1"}},
	}, nil)
	assert.ErrorIs(t, err, apierr.AccessDenied)
}

func TestChangeRecordSetsZoneVanishes(t *testing.T) {
	svc := newTestService(t)

	z, _, err := svc.CreateZone(1, "example.com.", "myRef", "", nil)
	require.NoError(t, err)

	mu := svc.dir.Lock(z.Origin)
	mu.Lock()

	done := make(chan error, 1)

	go func() {
		_, err := svc.ChangeRecordSets(z.Key, 1, []RecordChange{
			{Action: "CREATE", Record: zone.Input{Name: "www", Type: "A", TTL: "300", Value: "192.0.2.1"}},
		}, nil)
		done <- err
	}()

	// let the change pass its first lookup and park on the zone mutex,
	// then retire the zone before releasing
	time.Sleep(50 * time.Millisecond)
	svc.dir.Remove(z.Origin)
	mu.Unlock()

	assert.ErrorIs(t, <-done, apierr.InternalError)
}

func TestGetZoneReturnsStableCopy(t *testing.T) {
	svc := newTestService(t)

	z, _, err := svc.CreateZone(1, "example.com.", "myRef", "", nil)
	require.NoError(t, err)

	before, err := svc.GetZone(z.Key, 1)
	require.NoError(t, err)
	require.Len(t, before.Records, 3)

	_, err = svc.ChangeRecordSets(z.Key, 1, []RecordChange{
		{Action: "CREATE", Record: zone.Input{Name: "www", Type: "A", TTL: "300", Value: "192.0.2.1"}},
	}, nil)
	require.NoError(t, err)

	// the copy handed out earlier does not track the change
	assert.Len(t, before.Records, 3)

	after, err := svc.GetZone(z.Key, 1)
	require.NoError(t, err)
	assert.Len(t, after.Records, 4)
}

func TestConcurrentReadsAndChanges(t *testing.T) {
	svc := newTestService(t)

	z, _, err := svc.CreateZone(1, "example.com.", "myRef", "", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		for loopIdx := 0; loopIdx < 20; loopIdx++ {
			_, err := svc.ChangeRecordSets(z.Key, 1, []RecordChange{
				{Action: "CREATE", Record: zone.Input{Name: "www", Type: "A", TTL: "300", Value: "192.0.2.1"}},
			}, nil)
			assert.NoError(t, err)

			_, err = svc.ChangeRecordSets(z.Key, 1, []RecordChange{
				{Action: "DELETE", Record: zone.Input{Name: "www", Type: "A", TTL: "300", Value: "192.0.2.1"}},
			}, nil)
			assert.NoError(t, err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		for loopIdx := 0; loopIdx < 20; loopIdx++ {
			page, err := svc.ListRecordSets(z.Key, 1, 0, "", "")
			if assert.NoError(t, err) {
				// the seeded SOA and NS groups are always visible
				assert.GreaterOrEqual(t, len(page.Groups), 2)
			}

			_, err = svc.GetZone(z.Key, 1)
			assert.NoError(t, err)
		}
	}()

	wg.Wait()
}

func TestChangeRecordSetsPersists(t *testing.T) {
	svc := newTestService(t)

	z, _, err := svc.CreateZone(1, "example.com.", "myRef", "", nil)
	require.NoError(t, err)

	_, err = svc.ChangeRecordSets(z.Key, 1, []RecordChange{
		{Action: "CREATE", Record: zone.Input{Name: "www", Type: "A", TTL: "300", Value: "192.0.2.1"}},
	}, nil)
	require.NoError(t, err)

	// the zone file on disk carries the new record
	zones, err := svc.store.LoadAll()
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Len(t, zones[0].Records, 4)
}

func TestListZones(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 5; i++ {
		_, _, err := svc.CreateZone(1, fmt.Sprintf("zone%d.example.", i), "myRef", "", nil)
		require.NoError(t, err)
	}

	page := svc.ListZones(1, 3, "")
	assert.Len(t, page.Zones, 3)
	assert.True(t, page.Truncated)
	assert.Equal(t, 3, page.MaxItems)

	// the requested page size is echoed even when the page comes up short
	rest := svc.ListZones(1, 3, page.NextMarker)
	assert.Len(t, rest.Zones, 2)
	assert.False(t, rest.Truncated)
	assert.Equal(t, 3, rest.MaxItems)

	assert.Empty(t, svc.ListZones(2, 0, "").Zones)
}

func TestListRecordSets(t *testing.T) {
	svc := newTestService(t)

	z, _, err := svc.CreateZone(1, "example.com.", "myRef", "", nil)
	require.NoError(t, err)

	_, err = svc.ChangeRecordSets(z.Key, 1, []RecordChange{
		{Action: "CREATE", Record: zone.Input{Name: "www", Type: "A", TTL: "300", Value: "192.0.2.1"}},
		{Action: "CREATE", Record: zone.Input{Name: "www", Type: "A", TTL: "300", Value: "192.0.2.2"}},
		{Action: "CREATE", Record: zone.Input{Name: "@", Type: "MX", TTL: "300", Value: "10 mail"}},
	}, nil)
	require.NoError(t, err)

	page, err := svc.ListRecordSets(z.Key, 1, 0, "", "")
	require.NoError(t, err)
	require.Len(t, page.Groups, 4)
	assert.Equal(t, "example.com.", page.Origin)
	assert.Equal(t, zone.TypeSOA, page.Groups[0].Type)
	assert.False(t, page.Truncated)
	assert.Equal(t, directory.MaxPageSize, page.MaxItems)

	// both A values share one group
	assert.Equal(t, zone.TypeA, page.Groups[2].Type)
	assert.Len(t, page.Groups[2].Records, 2)

	// page through with the record markers
	first, err := svc.ListRecordSets(z.Key, 1, 2, "", "")
	require.NoError(t, err)
	require.Len(t, first.Groups, 2)
	require.True(t, first.Truncated)
	assert.Equal(t, 2, first.MaxItems)
	assert.Equal(t, "www.example.com.", first.NextName)
	assert.Equal(t, "A", first.NextType)

	second, err := svc.ListRecordSets(z.Key, 1, 0, first.NextName, first.NextType)
	require.NoError(t, err)
	require.Len(t, second.Groups, 2)
	assert.Equal(t, zone.TypeA, second.Groups[0].Type)
	assert.Equal(t, zone.TypeMX, second.Groups[1].Type)
}

func TestGetChangeUnknownID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetChange("NOSUCHCHANGE00")
	assert.ErrorIs(t, err, apierr.AccessDenied)
}
