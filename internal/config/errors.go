package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config Webserver.URL can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config Webserver.Port listening port can not be 0")

	// ErrNoNameservers error if no nameserver pool is configured.
	ErrNoNameservers = errors.New("toml config DNS.Nameservers must list at least one nameserver")

	// ErrEmptyZonePath error if the zone file directory is not set.
	ErrEmptyZonePath = errors.New("toml config DNS.ZonePath can not be empty")

	// ErrEmptyJournalPath error if the change journal path is not set.
	ErrEmptyJournalPath = errors.New("toml config Journal.Path can not be empty")
)
