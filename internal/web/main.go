// Package web assembles the fiber application: routes, middleware, the
// protocol error envelope, and the server lifecycle.
package web

import (
	"encoding/xml"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/nricciar/em-dns-manager/internal/apierr"
	"github.com/nricciar/em-dns-manager/internal/config"
	loggerfiber "github.com/nricciar/em-dns-manager/internal/logger/adapter/fiber"
	"github.com/nricciar/em-dns-manager/internal/service"
	"github.com/nricciar/em-dns-manager/internal/web/handler"
	"github.com/nricciar/em-dns-manager/internal/web/handler/change"
	"github.com/nricciar/em-dns-manager/internal/web/handler/hostedzone"
	"github.com/nricciar/em-dns-manager/internal/web/middleware/auth"
	"github.com/nricciar/em-dns-manager/internal/web/middleware/requestid"
)

const checkAliveURI = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, svc *service.Service) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if svc == nil {
		panic("service cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:        8192,
			AppName:               "dns-manager",
			CaseSensitive:         true,
			Prefork:               false,
			Immutable:             true,
			DisableStartupMessage: !cfg.DevMode,
			ErrorHandler:          errorHandler,
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	app.Use(requestid.New())
	app.Use(loggerfiber.New(loggerfiber.Config{
		Config:        cfg.Log,
		CheckAliveURI: checkAliveURI,
	}))

	app.Get(checkAliveURI, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// every protocol route sits behind the access key boundary
	app.Use(auth.New(cfg))

	hostedzone.Handler.Init(app, cfg, svc)
	change.Handler.Init(app, cfg, svc)

	return service
}

// errorElement is the inner error of the protocol envelope.
type errorElement struct {
	Type    string `xml:"Type"`
	Code    string `xml:"Code"`
	Message string `xml:"Message"`
}

type errorResponse struct {
	XMLName   xml.Name     `xml:"ErrorResponse"`
	XMLNS     string       `xml:"xmlns,attr"`
	Error     errorElement `xml:"Error"`
	RequestID string       `xml:"RequestId"`
}

type invalidChangeBatch struct {
	XMLName  xml.Name `xml:"InvalidChangeBatch"`
	XMLNS    string   `xml:"xmlns,attr"`
	Messages struct {
		Message []string `xml:"Message"`
	} `xml:"Messages"`
}

// errorHandler renders every error escaping a handler as the protocol's
// XML envelope. Unrecognized errors are reported as InternalError so
// storage details never reach a caller.
func errorHandler(c *fiber.Ctx, err error) error {
	requestID, _ := c.Locals(handler.LocalsRequestID).(string)

	var batchErr *apierr.ChangeBatchError
	if errors.As(err, &batchErr) {
		resp := invalidChangeBatch{XMLNS: handler.XMLNamespace}
		resp.Messages.Message = batchErr.Messages

		return handler.RenderXML(c, fiber.StatusBadRequest, resp)
	}

	apiErr := apierr.InternalError

	var known *apierr.Error
	if errors.As(err, &known) {
		apiErr = known
	} else if fiberErr, ok := err.(*fiber.Error); ok && fiberErr.Code < fiber.StatusInternalServerError {
		// unrouted paths and stray methods look the same as zones the
		// caller cannot see
		apiErr = apierr.AccessDenied
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return handler.RenderXML(c, apiErr.Status, errorResponse{
		XMLNS:     handler.XMLNamespace,
		Error:     errorElement{Type: "Sender", Code: apiErr.Code, Message: apiErr.Message},
		RequestID: requestID,
	})
}
