// Package daemon wires storage, journal, directory, and web service
// together and runs them.
package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/nricciar/em-dns-manager/internal/config"
	"github.com/nricciar/em-dns-manager/internal/directory"
	"github.com/nricciar/em-dns-manager/internal/journal"
	"github.com/nricciar/em-dns-manager/internal/service"
	"github.com/nricciar/em-dns-manager/internal/web"
	"github.com/nricciar/em-dns-manager/internal/zonefile"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// New creates a new Daemon instance with the provided configuration. It
// opens the journal, loads every zone file from disk into the directory,
// and assembles the web service.
func New(cfg *config.Config) (*Daemon, error) {
	jnl, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, err
	}

	store, err := zonefile.NewStore(cfg.DNS.ZonePath)
	if err != nil {
		return nil, err
	}

	zones, err := store.LoadAll()
	if err != nil {
		return nil, err
	}

	dir := directory.New()
	for _, z := range zones {
		dir.Put(z)
	}

	log.Info().Int("zones", len(zones)).Str("zone_path", cfg.DNS.ZonePath).Msg("loaded zones")

	svc := service.New(cfg, dir, store, jnl)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, svc),
	}, nil
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go d.webService.WaitShutdown()

	return d.webService.Start(addr)
}
