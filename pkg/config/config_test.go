package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hsguild/warden/pkg/types"
)

const validYAML = `
listens:
  - address: "0.0.0.0"
    port: 59661
machines:
  drill:
    name: Drill press
    description: The bench drill press
    privileges:
      write: lab.drill.use
      manage: lab.drill.admin
actors:
  relay:
    module: dummy
initiators:
  reader:
    module: dummy
actor_connections:
  - resource: drill
    actor: relay
init_connections:
  - initiator: reader
    resource: drill
db_path: /var/lib/warden/db
auditlog_path: /var/lib/warden/audit.log
roles:
  member:
    permissions: ["lab.drill.use"]
tlsconfig:
  certfile: /etc/warden/server.crt
  keyfile: /etc/warden/server.key
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warden.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadParsesValidConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Listens, 1)
	require.Equal(t, "0.0.0.0:59661", cfg.Listens[0].Addr())
	require.Equal(t, "/var/lib/warden/db", cfg.DBPath)

	resources := cfg.Resources()
	desc, ok := resources[types.ResourceID("drill")]
	require.True(t, ok)
	require.Equal(t, "Drill press", desc.Name)
	require.Equal(t, types.PermissionRule("lab.drill.use"), desc.Privileges.Write)

	roles := cfg.RoleMap()
	_, ok = roles[types.ParseRoleIdentifier("member")]
	require.True(t, ok)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, validYAML+"\nbogus_field: true\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsDanglingActorConnection(t *testing.T) {
	path := writeConfig(t, `
listens:
  - address: "0.0.0.0"
machines:
  drill:
    name: Drill press
    privileges:
      write: lab.drill.use
actor_connections:
  - resource: drill
    actor: nonexistent
db_path: /var/lib/warden/db
auditlog_path: /var/lib/warden/audit.log
tlsconfig:
  certfile: /etc/warden/server.crt
  keyfile: /etc/warden/server.key
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateRequiresListenAndPaths(t *testing.T) {
	require.Error(t, Config{}.Validate())
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultRoundTripsThroughYAML(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	path := writeConfig(t, string(data))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default().DBPath, cfg.DBPath)
	require.Equal(t, Default().Machines["drill"].Name, cfg.Machines["drill"].Name)
}

func TestListenAddrDefaultsPort(t *testing.T) {
	l := Listen{Address: "127.0.0.1"}
	require.Equal(t, "127.0.0.1:59661", l.Addr())
}
