// Package service implements the hosted zone operations: listing,
// creation, deletion, and record set changes. Handlers translate between
// the wire protocol and these methods; everything below speaks domain
// types only.
package service

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nricciar/em-dns-manager/internal/apierr"
	"github.com/nricciar/em-dns-manager/internal/config"
	"github.com/nricciar/em-dns-manager/internal/db/models"
	"github.com/nricciar/em-dns-manager/internal/directory"
	"github.com/nricciar/em-dns-manager/internal/journal"
	"github.com/nricciar/em-dns-manager/internal/keygen"
	"github.com/nricciar/em-dns-manager/internal/zone"
	"github.com/nricciar/em-dns-manager/internal/zonefile"
)

const (
	changeTypeCreateZone = "CreateHostedZone"
	changeTypeDeleteZone = "DeleteHostedZone"
	changeTypeChangeRRs  = "ChangeResourceRecordSets"
)

type Service struct {
	cfg     *config.Config
	dir     *directory.Directory
	store   *zonefile.Store
	journal *journal.Journal
}

func New(cfg *config.Config, dir *directory.Directory, store *zonefile.Store, jnl *journal.Journal) *Service {
	return &Service{cfg: cfg, dir: dir, store: store, journal: jnl}
}

// ListZones pages through the caller's zones.
func (s *Service) ListZones(owner, maxItems int, marker string) directory.Page {
	return s.dir.List(owner, maxItems, marker)
}

// GetZone returns a stable copy of the caller's zone with the given
// key, taken under the zone mutex so a concurrent change batch cannot
// be observed mid-application. A key that does not exist and a key
// belonging to another owner produce the same error.
func (s *Service) GetZone(key string, owner int) (*zone.Zone, error) {
	z, ok := s.dir.ByKey(key, owner)
	if !ok {
		return nil, apierr.AccessDenied
	}

	mu := s.dir.Lock(z.Origin)
	mu.Lock()
	defer mu.Unlock()

	z, ok = s.dir.ByKey(key, owner)
	if !ok {
		return nil, apierr.AccessDenied
	}

	return z.Snapshot(), nil
}

// CreateZone creates a hosted zone seeded with its SOA record and one NS
// record per configured nameserver. The raw request payload is journaled
// alongside the mutation.
func (s *Service) CreateZone(owner int, name, ref, comment string, payload []byte) (*zone.Zone, *models.Change, error) {
	if !zone.ValidRef(ref) {
		return nil, nil, apierr.InvalidInput
	}

	// The origin must already be absolute; nothing is normalized on the
	// caller's behalf.
	origin := name
	if !zone.ValidOrigin(origin) {
		return nil, nil, apierr.InvalidDomainName
	}

	mu := s.dir.Lock(origin)
	mu.Lock()
	defer mu.Unlock()

	if _, exists := s.dir.ByName(origin); exists {
		return nil, nil, apierr.HostedZoneAlreadyExists
	}

	z := s.seedZone(origin, ref, comment, owner)

	if err := s.store.Save(z); err != nil {
		log.Error().Err(err).Str("zone_name", origin).Msg("failed to persist new zone")

		return nil, nil, apierr.InternalError
	}

	change, err := s.journal.Record(origin, changeTypeCreateZone, payload)
	if err != nil {
		log.Error().Err(err).Str("zone_name", origin).Msg("failed to journal zone creation")

		return nil, nil, apierr.InternalError
	}

	s.dir.Put(z)

	log.Info().
		Str("zone_name", origin).
		Str("zone_key", z.Key).
		Int("owner", owner).
		Msg("created hosted zone")

	// The directory now holds the live zone; the caller gets a copy.
	return z.Snapshot(), change, nil
}

// seedZone builds a fresh zone with its SOA and NS records. The SOA
// primary is drawn from the nameserver pool; the serial encodes the
// creation date.
func (s *Service) seedZone(origin, ref, comment string, owner int) *zone.Zone {
	var (
		nameservers = s.cfg.DNS.Nameservers
		primary     = nameservers[rand.Intn(len(nameservers))]
		serial      = time.Now().UTC().Format("20060102") + "01"
	)

	z := &zone.Zone{
		Key:     keygen.New(),
		Origin:  origin,
		Ref:     ref,
		Comment: comment,
		Owner:   owner,
		TTL:     s.cfg.DNS.TTL,
	}

	z.AddRecord(zone.Record{
		Name: "@",
		TTL:  s.cfg.DNS.TTL,
		Data: zone.SOAData{
			NS:      primary,
			Contact: "root." + origin,
			Serial:  serial,
			Refresh: s.cfg.DNS.Refresh,
			Retry:   s.cfg.DNS.Retry,
			Expire:  s.cfg.DNS.Expire,
			Minimum: s.cfg.DNS.Minimum,
		},
	})

	for _, ns := range nameservers {
		z.AddRecord(zone.Record{
			Name: "@",
			TTL:  s.cfg.DNS.TTL,
			Data: zone.HostData{Kind: zone.TypeNS, Target: ns},
		})
	}

	return z
}

// DeleteZone retires the caller's zone. The zone file is relocated, not
// destroyed, so the zone's history stays recoverable by hand.
func (s *Service) DeleteZone(key string, owner int, payload []byte) (*models.Change, error) {
	z, ok := s.dir.ByKey(key, owner)
	if !ok {
		return nil, apierr.AccessDenied
	}

	mu := s.dir.Lock(z.Origin)
	mu.Lock()
	defer mu.Unlock()

	// The zone may have been deleted while waiting for the lock.
	if _, ok := s.dir.ByKey(key, owner); !ok {
		return nil, apierr.AccessDenied
	}

	if err := s.store.Delete(z.Origin); err != nil {
		log.Error().Err(err).Str("zone_name", z.Origin).Msg("failed to relocate zone file")

		return nil, apierr.InternalError
	}

	s.dir.Remove(z.Origin)

	change, err := s.journal.Record(z.Origin, changeTypeDeleteZone, payload)
	if err != nil {
		log.Error().Err(err).Str("zone_name", z.Origin).Msg("failed to journal zone deletion")

		return nil, apierr.InternalError
	}

	log.Info().
		Str("zone_name", z.Origin).
		Str("zone_key", key).
		Int("owner", owner).
		Msg("deleted hosted zone")

	return change, nil
}

// RecordChange is one sub-operation of a change batch.
type RecordChange struct {
	Action string
	Record zone.Input
}

// ChangeRecordSets applies a batch of record changes to the caller's
// zone. The whole batch is validated first and rejected as a unit if any
// sub-operation is invalid; a valid batch is then applied in order, with
// the zone file rewritten after each sub-operation.
func (s *Service) ChangeRecordSets(key string, owner int, changes []RecordChange, payload []byte) (*models.Change, error) {
	z, ok := s.dir.ByKey(key, owner)
	if !ok {
		return nil, apierr.AccessDenied
	}

	mu := s.dir.Lock(z.Origin)
	mu.Lock()
	defer mu.Unlock()

	// The zone was visible a moment ago, so losing it here means a
	// concurrent deletion won the lock first.
	z, ok = s.dir.ByKey(key, owner)
	if !ok {
		return nil, apierr.InternalError
	}

	built, problems := s.buildBatch(z.Origin, changes)
	if len(problems) > 0 {
		return nil, &apierr.ChangeBatchError{Messages: problems}
	}

	for i, b := range built {
		switch b.action {
		case "CREATE":
			z.AddRecord(b.record)

		case "DELETE":
			removed := z.RemoveMatching(b.record.Name, b.record.Type(), b.record.Data)

			log.Debug().
				Str("zone_name", z.Origin).
				Str("record_name", b.record.Name).
				Str("record_type", string(b.record.Type())).
				Int("removed", removed).
				Msg("deleted matching records")
		}

		if err := s.store.Save(z); err != nil {
			log.Error().
				Err(err).
				Str("zone_name", z.Origin).
				Int("applied", i+1).
				Msg("failed to persist record change")

			return nil, apierr.InternalError
		}
	}

	change, err := s.journal.Record(z.Origin, changeTypeChangeRRs, payload)
	if err != nil {
		log.Error().Err(err).Str("zone_name", z.Origin).Msg("failed to journal record change")

		return nil, apierr.InternalError
	}

	return change, nil
}

type builtChange struct {
	action string
	record zone.Record
}

// buildBatch validates every sub-operation and collects all problems so
// the caller sees the complete defect list in one response.
func (s *Service) buildBatch(origin string, changes []RecordChange) ([]builtChange, []string) {
	var (
		built    []builtChange
		problems []string
	)

	for _, c := range changes {
		action := strings.ToUpper(c.Action)
		if action != "CREATE" && action != "DELETE" {
			problems = append(problems, "invalid change action "+c.Action)

			continue
		}

		rec, recProblems := zone.Build(origin, c.Record, s.cfg.Record)
		if len(recProblems) > 0 {
			problems = append(problems, recProblems...)

			continue
		}

		built = append(built, builtChange{action: action, record: rec})
	}

	return built, problems
}

// RecordPage is one listing page of a zone's record groups. MaxItems
// carries the clamped request value, not the number of groups returned.
type RecordPage struct {
	Origin    string
	Groups    []zone.Group
	Truncated bool
	NextName  string
	NextType  string
	MaxItems  int
}

// ListRecordSets pages through a zone's records, grouped by owner name
// and type in presentation order. A non-empty name marker resumes at the
// matching group inclusively; an unknown marker yields an empty page.
func (s *Service) ListRecordSets(key string, owner, maxItems int, nameMarker, typeMarker string) (RecordPage, error) {
	z, err := s.GetZone(key, owner)
	if err != nil {
		return RecordPage{}, err
	}

	if maxItems < 1 || maxItems > directory.MaxPageSize {
		maxItems = directory.MaxPageSize
	}

	var (
		page    = RecordPage{Origin: z.Origin, MaxItems: maxItems}
		started = nameMarker == ""
	)

	for _, g := range zone.Groups(z, s.cfg.Record) {
		if !started {
			full := zone.Expand(g.Name, z.Origin)
			if full != nameMarker || (typeMarker != "" && string(g.Type) != typeMarker) {
				continue
			}

			started = true
		}

		if len(page.Groups) == maxItems {
			page.Truncated = true
			page.NextName = zone.Expand(g.Name, z.Origin)
			page.NextType = string(g.Type)

			break
		}

		page.Groups = append(page.Groups, g)
	}

	return page, nil
}

// GetChange retrieves a journal entry by id. Unknown ids surface the same
// way as zones the caller cannot see.
func (s *Service) GetChange(id string) (*models.Change, error) {
	change, err := s.journal.Get(id)
	if err != nil {
		if errors.Is(err, journal.ErrChangeNotFound) {
			return nil, apierr.AccessDenied
		}

		log.Error().Err(err).Str("change_id", id).Msg("failed to read change")

		return nil, apierr.InternalError
	}

	return change, nil
}
