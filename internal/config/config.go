// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"
)

// EnvConfigJSON names the environment variable holding a JSON override
// that is merged over the TOML configuration.
const EnvConfigJSON = "DNS_MANAGER_CONFIG_JSON"

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to apply json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and apply defaults where a zero value
// has a sane fallback.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if len(c.DNS.Nameservers) == 0 {
		return errors.Wrap(ErrNoNameservers, invalidErrMessage)
	}

	if c.DNS.ZonePath == "" {
		return errors.Wrap(ErrEmptyZonePath, invalidErrMessage)
	}

	if c.Journal.Path == "" {
		return errors.Wrap(ErrEmptyJournalPath, invalidErrMessage)
	}

	if c.DNS.TTL == 0 {
		c.DNS.TTL = 86400
	}

	if c.DNS.Refresh == 0 {
		c.DNS.Refresh = 28800
	}

	if c.DNS.Retry == 0 {
		c.DNS.Retry = 7200
	}

	if c.DNS.Expire == 0 {
		c.DNS.Expire = 604800
	}

	if c.DNS.Minimum == 0 {
		c.DNS.Minimum = 86400
	}

	if c.Record == nil {
		c.Record = DefaultRecordPolicy()
	}

	return nil
}

// DefaultRecordPolicy returns the record type policy used when the config
// does not carry a [Record] section. PTR is reverse-only, SRV forward-only;
// SOA is absent on purpose since it is never user-editable.
func DefaultRecordPolicy() Record {
	return Record{
		"NS":    {Forward: true, Reverse: true, Order: 1},
		"A":     {Forward: true, Order: 2},
		"AAAA":  {Forward: true, Order: 3},
		"CNAME": {Forward: true, Order: 4},
		"MX":    {Forward: true, Order: 5},
		"SRV":   {Forward: true, Order: 6},
		"TXT":   {Forward: true, Reverse: true, Order: 7},
		"PTR":   {Reverse: true, Order: 8},
	}
}
