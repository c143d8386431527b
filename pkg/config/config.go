// Package config loads warden's declarative YAML configuration file:
// listen addresses, the machine/actor/initiator/role declarations,
// storage paths and TLS settings. Unknown fields are rejected so a
// typo in the file fails loudly at startup rather than being silently
// ignored.
package config

import (
	"strconv"

	"github.com/hsguild/warden/pkg/types"
)

// defaultListenPort is used when a Listen entry omits Port.
const defaultListenPort = 59661

// Config is the complete on-disk shape of warden's configuration
// file, matching spec.md §6's field set exactly.
type Config struct {
	Listens          []Listen              `yaml:"listens"`
	Machines         map[string]Machine    `yaml:"machines"`
	Actors           map[string]Module     `yaml:"actors,omitempty"`
	Initiators       map[string]Module     `yaml:"initiators,omitempty"`
	MQTTURL          string                `yaml:"mqtt_url,omitempty"`
	ActorConnections []ActorConnection     `yaml:"actor_connections,omitempty"`
	InitConnections  []InitConnection      `yaml:"init_connections,omitempty"`
	DBPath           string                `yaml:"db_path"`
	AuditlogPath     string                `yaml:"auditlog_path"`
	Roles            map[string]types.Role `yaml:"roles,omitempty"`
	TLS              TLS                   `yaml:"tlsconfig"`
	TLSKeyLog        string                `yaml:"tlskeylog,omitempty"`
	MetricsAddr      string                `yaml:"metrics_addr,omitempty"`
}

// Listen is one TCP address the RPC server accepts TLS connections on.
type Listen struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port,omitempty"`
}

// Machine is a resource's config-sourced description. It reuses
// types.ResourceDescription for every field except ID, which the
// config supplies as the Machines map's key instead of repeating it
// in the value.
type Machine struct {
	Name        string                `yaml:"name"`
	Description types.LocalizedString `yaml:"description,omitempty"`
	Wiki        string                `yaml:"wiki,omitempty"`
	Category    string                `yaml:"category,omitempty"`
	Privileges  types.Privileges      `yaml:"privileges"`
}

// Module names a built-in actor or initiator implementation and the
// free-form parameters it is constructed with.
type Module struct {
	Module string            `yaml:"module"`
	Params map[string]string `yaml:"params,omitempty"`
}

// ActorConnection wires a configured actor to the resource whose
// state changes it should apply as a side effect.
type ActorConnection struct {
	Resource string `yaml:"resource"`
	Actor    string `yaml:"actor"`
}

// InitConnection wires a configured initiator to the resource it
// proposes state changes for.
type InitConnection struct {
	Initiator string `yaml:"initiator"`
	Resource  string `yaml:"resource"`
}

// TLS is the tlsconfig block: certificate material plus the optional
// cipher/version/ALPN overrides tlsconfig.Build accepts.
type TLS struct {
	CertFile   string   `yaml:"certfile"`
	KeyFile    string   `yaml:"keyfile"`
	Ciphers    []string `yaml:"ciphers,omitempty"`
	MinVersion string   `yaml:"tls_min_version,omitempty"`
	Protocols  []string `yaml:"protocols,omitempty"`
}

// resourceDescription builds the runtime types.ResourceDescription
// for a Machine entry, filling in the id the map key carried.
func (m Machine) resourceDescription(id string) types.ResourceDescription {
	return types.ResourceDescription{
		ID:          types.ResourceID(id),
		Name:        m.Name,
		Description: m.Description,
		Wiki:        m.Wiki,
		Category:    m.Category,
		Privileges:  m.Privileges,
	}
}

// Resources returns every configured machine as a runtime
// ResourceDescription, ready for resource.Registry.Register.
func (c Config) Resources() map[types.ResourceID]types.ResourceDescription {
	out := make(map[types.ResourceID]types.ResourceDescription, len(c.Machines))
	for id, m := range c.Machines {
		out[types.ResourceID(id)] = m.resourceDescription(id)
	}
	return out
}

// RoleMap parses the string-keyed Roles block into a roles.Map-shaped
// value (types.RoleIdentifier keys), deferring the pkg/roles import to
// callers so this package stays one level below pkg/roles in the
// dependency graph.
func (c Config) RoleMap() map[types.RoleIdentifier]types.Role {
	out := make(map[types.RoleIdentifier]types.Role, len(c.Roles))
	for name, r := range c.Roles {
		out[types.ParseRoleIdentifier(name)] = r
	}
	return out
}

// Addr renders a Listen as a net.Listen-compatible address string.
func (l Listen) Addr() string {
	port := l.Port
	if port == 0 {
		port = defaultListenPort
	}
	return l.Address + ":" + strconv.Itoa(port)
}
