// Package directory keeps the live set of hosted zones in memory and
// answers owner scoped lookups over it. The on-disk store remains the
// source of truth; the directory is rebuilt from it at startup.
package directory

import (
	"sort"
	"sync"

	"github.com/nricciar/em-dns-manager/internal/zone"
)

// MaxPageSize caps how many zones a single listing page may carry.
const MaxPageSize = 100

// Directory indexes zones by origin and by key. Listing iterates origins
// in sorted order so pagination is stable across calls.
type Directory struct {
	mu       sync.RWMutex
	byOrigin map[string]*zone.Zone
	byKey    map[string]*zone.Zone
	origins  []string

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func New() *Directory {
	return &Directory{
		byOrigin: make(map[string]*zone.Zone),
		byKey:    make(map[string]*zone.Zone),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Put inserts or replaces the zone under its origin.
func (d *Directory) Put(z *zone.Zone) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.byOrigin[z.Origin]; ok {
		delete(d.byKey, old.Key)
	} else {
		i := sort.SearchStrings(d.origins, z.Origin)
		d.origins = append(d.origins, "")
		copy(d.origins[i+1:], d.origins[i:])
		d.origins[i] = z.Origin
	}

	d.byOrigin[z.Origin] = z
	d.byKey[z.Key] = z
}

// Remove drops the zone with the given origin, if present.
func (d *Directory) Remove(origin string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	z, ok := d.byOrigin[origin]
	if !ok {
		return
	}

	delete(d.byOrigin, origin)
	delete(d.byKey, z.Key)

	i := sort.SearchStrings(d.origins, origin)
	if i < len(d.origins) && d.origins[i] == origin {
		d.origins = append(d.origins[:i], d.origins[i+1:]...)
	}
}

// ByKey finds a zone by its key, visible only to its owner. A missing key
// and a key owned by someone else are indistinguishable to the caller.
func (d *Directory) ByKey(key string, owner int) (*zone.Zone, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	z, ok := d.byKey[key]
	if !ok || z.Owner != owner {
		return nil, false
	}

	return z, true
}

// ByName finds a zone by origin regardless of owner.
func (d *Directory) ByName(origin string) (*zone.Zone, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	z, ok := d.byOrigin[origin]

	return z, ok
}

// Page is one listing page of an owner's zones. MaxItems carries the
// clamped request value, not the number of zones returned.
type Page struct {
	Zones      []*zone.Zone
	Truncated  bool
	NextMarker string
	MaxItems   int
}

// List returns up to maxItems of the owner's zones in origin order.
// A non-empty marker resumes at the zone whose key equals the marker,
// including that zone itself; an unknown marker yields an empty page.
// When the page fills before the owner's zones run out, NextMarker names
// the key to resume from.
func (d *Directory) List(owner, maxItems int, marker string) Page {
	if maxItems < 1 || maxItems > MaxPageSize {
		maxItems = MaxPageSize
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var (
		page    = Page{MaxItems: maxItems}
		started = marker == ""
	)

	for _, origin := range d.origins {
		z := d.byOrigin[origin]

		if !started {
			if z.Key != marker {
				continue
			}

			started = true
		}

		if z.Owner != owner {
			continue
		}

		if len(page.Zones) == maxItems {
			page.Truncated = true
			page.NextMarker = z.Key

			break
		}

		page.Zones = append(page.Zones, z)
	}

	return page
}

// Lock returns the mutex serializing mutations of the named zone. The
// mutex outlives the zone so a delete racing a change stays ordered.
func (d *Directory) Lock(origin string) *sync.Mutex {
	d.lockMu.Lock()
	defer d.lockMu.Unlock()

	mu, ok := d.locks[origin]
	if !ok {
		mu = &sync.Mutex{}
		d.locks[origin] = mu
	}

	return mu
}
