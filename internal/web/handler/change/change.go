// Package change provides the change status endpoint.
package change

import (
	"encoding/xml"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/nricciar/em-dns-manager/internal/config"
	"github.com/nricciar/em-dns-manager/internal/service"
	"github.com/nricciar/em-dns-manager/internal/web/handler"
)

// Path is the change status route.
const Path = handler.RootPath + "change/:id"

type GetChangeResponse struct {
	XMLName    xml.Name           `xml:"GetChangeResponse"`
	XMLNS      string             `xml:"xmlns,attr"`
	ChangeInfo handler.ChangeInfo `xml:"ChangeInfo"`
}

// Service is the change status handler service.
type Service struct {
	cfg *config.Config
	svc *service.Service
}

// Handler is the change status handler.
var Handler = Service{}

// Init initializes the change status handler and registers its route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *service.Service) {
	if app == nil || cfg == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilACSFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.svc = svc

	app.Get(Path, s.get)
}

func (s *Service) get(c *fiber.Ctx) error {
	entry, err := s.svc.GetChange(c.Params("id"))
	if err != nil {
		return err
	}

	return handler.RenderXML(c, fiber.StatusOK, GetChangeResponse{
		XMLNS:      handler.XMLNamespace,
		ChangeInfo: handler.NewChangeInfo(entry, handler.StatusInSync),
	})
}
