package config

import "github.com/hsguild/warden/pkg/types"

// Default returns a minimal, valid configuration with one example
// machine, actor and initiator wired together — enough for
// --print-default to hand an operator a working starting point rather
// than an empty shell.
func Default() Config {
	return Config{
		Listens: []Listen{
			{Address: "0.0.0.0", Port: defaultListenPort},
		},
		Machines: map[string]Machine{
			"drill": {
				Name:        "Drill press",
				Description: types.NewLocalizedString("The bench drill press in the metal shop"),
				Privileges: types.Privileges{
					Disclose: "",
					Read:     "",
					Write:    "lab.drill.use",
					Manage:   "lab.drill.admin",
				},
			},
		},
		Actors: map[string]Module{
			"drill-relay": {Module: "dummy"},
		},
		Initiators: map[string]Module{
			"drill-cardreader": {Module: "dummy"},
		},
		ActorConnections: []ActorConnection{
			{Resource: "drill", Actor: "drill-relay"},
		},
		InitConnections: []InitConnection{
			{Initiator: "drill-cardreader", Resource: "drill"},
		},
		DBPath:       "/var/lib/warden/db",
		AuditlogPath: "/var/lib/warden/audit.log",
		Roles: map[string]types.Role{
			"member": {
				Permissions: []types.PermissionRule{"lab.*.use"},
			},
			"admin": {
				Parents:     []types.RoleIdentifier{types.ParseRoleIdentifier("member")},
				Permissions: []types.PermissionRule{"lab.*.admin"},
			},
		},
		TLS: TLS{
			CertFile: "/etc/warden/tls/server.crt",
			KeyFile:  "/etc/warden/tls/server.key",
		},
		MetricsAddr: "127.0.0.1:9661",
	}
}
