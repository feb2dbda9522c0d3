// Package hostedzone provides the hosted zone endpoints: listing,
// creation, retrieval, deletion, and record set management.
package hostedzone

import (
	"encoding/xml"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/nricciar/em-dns-manager/internal/apierr"
	"github.com/nricciar/em-dns-manager/internal/config"
	"github.com/nricciar/em-dns-manager/internal/service"
	"github.com/nricciar/em-dns-manager/internal/web/handler"
	"github.com/nricciar/em-dns-manager/internal/zone"
)

const (
	// Path is the hosted zone collection route.
	Path = handler.RootPath + "hostedzone"

	// KeyPath is the single hosted zone route.
	KeyPath = Path + "/:key"

	// RecordSetPath is the record set route of a hosted zone.
	RecordSetPath = KeyPath + "/rrset"
)

// Service is the hosted zone handler service.
type Service struct {
	cfg       *config.Config
	svc       *service.Service
	validator *validator.Validate
}

// Handler is the hosted zone handler.
var Handler = Service{}

// Init initializes the hosted zone handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *service.Service) {
	if app == nil || cfg == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilACSFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.svc = svc
	s.validator = validator.New()

	app.Get(Path, s.list)
	app.Post(Path, s.create)
	app.Get(KeyPath, s.get)
	app.Delete(KeyPath, s.delete)
	app.Get(RecordSetPath, s.listRecordSets)
	app.Post(RecordSetPath, s.changeRecordSets)
}

func (s *Service) list(c *fiber.Ctx) error {
	var (
		marker   = c.Query("marker")
		maxItems = c.QueryInt("maxitems")
		page     = s.svc.ListZones(handler.Owner(c), maxItems, marker)
	)

	resp := ListHostedZonesResponse{
		XMLNS:       handler.XMLNamespace,
		Marker:      marker,
		IsTruncated: page.Truncated,
		NextMarker:  page.NextMarker,
		MaxItems:    page.MaxItems,
	}

	for _, z := range page.Zones {
		resp.HostedZones.HostedZone = append(resp.HostedZones.HostedZone, NewHostedZone(z))
	}

	return handler.RenderXML(c, fiber.StatusOK, resp)
}

func (s *Service) create(c *fiber.Ctx) error {
	var req CreateHostedZoneRequest

	if err := xml.Unmarshal(c.Body(), &req); err != nil {
		return apierr.InvalidInput
	}

	if err := s.validator.Struct(&req); err != nil {
		return apierr.InvalidInput
	}

	z, change, err := s.svc.CreateZone(
		handler.Owner(c),
		req.Name,
		req.CallerReference,
		req.HostedZoneConfig.Comment,
		c.Body(),
	)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderLocation, "/hostedzone/"+z.Key)

	return handler.RenderXML(c, fiber.StatusCreated, CreateHostedZoneResponse{
		XMLNS:         handler.XMLNamespace,
		HostedZone:    NewHostedZone(z),
		ChangeInfo:    handler.NewChangeInfo(change, handler.StatusPending),
		DelegationSet: NewDelegationSet(z),
	})
}

func (s *Service) get(c *fiber.Ctx) error {
	z, err := s.svc.GetZone(c.Params("key"), handler.Owner(c))
	if err != nil {
		return err
	}

	return handler.RenderXML(c, fiber.StatusOK, GetHostedZoneResponse{
		XMLNS:         handler.XMLNamespace,
		HostedZone:    NewHostedZone(z),
		DelegationSet: NewDelegationSet(z),
	})
}

func (s *Service) delete(c *fiber.Ctx) error {
	change, err := s.svc.DeleteZone(c.Params("key"), handler.Owner(c), c.Body())
	if err != nil {
		return err
	}

	return handler.RenderXML(c, fiber.StatusOK, DeleteHostedZoneResponse{
		XMLNS:      handler.XMLNamespace,
		ChangeInfo: handler.NewChangeInfo(change, handler.StatusPending),
	})
}

func (s *Service) listRecordSets(c *fiber.Ctx) error {
	page, err := s.svc.ListRecordSets(
		c.Params("key"),
		handler.Owner(c),
		c.QueryInt("maxitems"),
		c.Query("name"),
		c.Query("type"),
	)
	if err != nil {
		return err
	}

	resp := ListResourceRecordSetsResponse{
		XMLNS:          handler.XMLNamespace,
		IsTruncated:    page.Truncated,
		MaxItems:       page.MaxItems,
		NextRecordName: page.NextName,
		NextRecordType: page.NextType,
	}

	for _, g := range page.Groups {
		resp.ResourceRecordSets.ResourceRecordSet = append(resp.ResourceRecordSets.ResourceRecordSet,
			NewResourceRecordSet(g, page.Origin))
	}

	return handler.RenderXML(c, fiber.StatusOK, resp)
}

func (s *Service) changeRecordSets(c *fiber.Ctx) error {
	var req ChangeResourceRecordSetsRequest

	if err := xml.Unmarshal(c.Body(), &req); err != nil {
		return apierr.InvalidInput
	}

	change, err := s.svc.ChangeRecordSets(
		c.Params("key"),
		handler.Owner(c),
		flatten(req),
		c.Body(),
	)
	if err != nil {
		return err
	}

	return handler.RenderXML(c, fiber.StatusOK, ChangeResourceRecordSetsResponse{
		XMLNS:      handler.XMLNamespace,
		ChangeInfo: handler.NewChangeInfo(change, handler.StatusPending),
	})
}

// flatten turns the wire batch into one sub-operation per record value.
func flatten(req ChangeResourceRecordSetsRequest) []service.RecordChange {
	var changes []service.RecordChange

	for _, ch := range req.ChangeBatch.Changes.Change {
		set := ch.ResourceRecordSet

		for _, rr := range set.ResourceRecords.ResourceRecord {
			changes = append(changes, service.RecordChange{
				Action: ch.Action,
				Record: zone.Input{
					Name:  set.Name,
					Type:  set.Type,
					TTL:   set.TTL,
					Value: rr.Value,
				},
			})
		}
	}

	return changes
}
