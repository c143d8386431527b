package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hsguild/warden/pkg/werr"
)

// Load reads and decodes the YAML config file at path. Unknown fields
// fail the decode, matching spec.md §6's "unknown fields are
// rejected".
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, werr.Wrap(werr.IoFailure, err, "read config file")
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, werr.Wrap(werr.ConfigInvalid, err, "parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the structural invariants Load cannot express
// through the YAML schema alone: every connection must reference a
// declared machine/actor/initiator, and the required paths must be set.
func (c Config) Validate() error {
	if len(c.Listens) == 0 {
		return werr.New(werr.ConfigInvalid, "at least one listen address is required")
	}
	if c.DBPath == "" {
		return werr.New(werr.ConfigInvalid, "db_path is required")
	}
	if c.AuditlogPath == "" {
		return werr.New(werr.ConfigInvalid, "auditlog_path is required")
	}
	if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
		return werr.New(werr.ConfigInvalid, "tlsconfig.certfile and tlsconfig.keyfile are required")
	}

	for _, conn := range c.ActorConnections {
		if _, ok := c.Machines[conn.Resource]; !ok {
			return werr.New(werr.ConfigInvalid, fmt.Sprintf("actor_connections: unknown machine %q", conn.Resource))
		}
		if _, ok := c.Actors[conn.Actor]; !ok {
			return werr.New(werr.ConfigInvalid, fmt.Sprintf("actor_connections: unknown actor %q", conn.Actor))
		}
	}
	for _, conn := range c.InitConnections {
		if _, ok := c.Machines[conn.Resource]; !ok {
			return werr.New(werr.ConfigInvalid, fmt.Sprintf("init_connections: unknown machine %q", conn.Resource))
		}
		if _, ok := c.Initiators[conn.Initiator]; !ok {
			return werr.New(werr.ConfigInvalid, fmt.Sprintf("init_connections: unknown initiator %q", conn.Initiator))
		}
	}
	return nil
}

// Marshal renders c back to YAML, used by --print-default.
func (c Config) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, werr.Wrap(werr.IoFailure, err, "marshal config")
	}
	return b, nil
}
