package runtime

import (
	"context"
	"net/http"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hsguild/warden/pkg/actor"
	"github.com/hsguild/warden/pkg/audit"
	"github.com/hsguild/warden/pkg/auth"
	"github.com/hsguild/warden/pkg/config"
	"github.com/hsguild/warden/pkg/initiator"
	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/metrics"
	"github.com/hsguild/warden/pkg/resource"
	"github.com/hsguild/warden/pkg/rpc"
	"github.com/hsguild/warden/pkg/tdb"
	"github.com/hsguild/warden/pkg/tlsconfig"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/users"
	"github.com/hsguild/warden/pkg/werr"
)

// Version is the release string ServerRelease reports,
// overridden at build time via -ldflags.
var Version = "dev"

// guestUserID is the directory identity a successful ANONYMOUS
// exchange resolves to.
const guestUserID types.UserID = "anonymous"

// Runtime owns every long-lived piece a running daemon needs: storage,
// the RPC server, and one supervised goroutine per configured actor
// and initiator edge. Build assembles one from a loaded config.Config;
// Start/Stop drive its lifetime.
type Runtime struct {
	cfg config.Config

	env      *tdb.Environment
	auditLog *audit.Log
	dir      *users.Directory
	registry *resource.Registry
	server   *rpc.Server
	mqtt     mqtt.Client

	actorDrivers     []*actor.Driver
	initiatorDrivers []*initiator.Driver
	gaugeStop        chan struct{}
	healthServer     *http.Server

	cancel context.CancelFunc
}

// Build opens storage and wires every subsystem cfg describes, but
// starts nothing — call Start to begin serving.
func Build(cfg config.Config) (*Runtime, error) {
	metrics.SetVersion(Version)

	env, err := tdb.OpenEnvironment(cfg.DBPath)
	if err != nil {
		metrics.RegisterComponent("tdb", false, err.Error())
		return nil, err
	}
	metrics.RegisterComponent("tdb", true, "")

	auditLog, err := audit.Open(cfg.AuditlogPath)
	if err != nil {
		env.Close()
		return nil, err
	}

	registry, err := resource.NewRegistry(env, auditLog)
	if err != nil {
		auditLog.Close()
		env.Close()
		return nil, err
	}
	for id, desc := range cfg.Resources() {
		if _, err := registry.Register(desc, types.StatusFree()); err != nil {
			return nil, werr.Wrap(werr.IoFailure, err, "register resource "+string(id))
		}
	}

	dir, err := users.Open(env)
	if err != nil {
		return nil, err
	}

	resolver := auth.NewResolver(dir, guestUserID)
	gate := auth.NewGate(resolver, 0)

	tlsCfg, err := tlsconfig.Build(tlsconfig.Options{
		CertFile:   cfg.TLS.CertFile,
		KeyFile:    cfg.TLS.KeyFile,
		Ciphers:    cfg.TLS.Ciphers,
		MinVersion: cfg.TLS.MinVersion,
		ALPN:       cfg.TLS.Protocols,
		KeyLogPath: tlsconfig.ResolveKeyLogPath(cfg.TLSKeyLog),
	})
	if err != nil {
		return nil, err
	}

	server := rpc.NewServer(gate, dir, cfg.RoleMap(), registry, rpc.Release{Name: "warden", Release: Version}, tlsCfg)
	metrics.RegisterComponent("rpc", true, "")

	rt := &Runtime{
		cfg:       cfg,
		env:       env,
		auditLog:  auditLog,
		dir:       dir,
		registry:  registry,
		server:    server,
		gaugeStop: make(chan struct{}),
	}

	if err := rt.wireActors(); err != nil {
		return nil, err
	}
	if err := rt.wireInitiators(); err != nil {
		return nil, err
	}

	return rt, nil
}

// Start begins serving. It launches one goroutine per actor/initiator
// edge, the metrics gauge refresh loop, and one goroutine per
// configured listen address; it returns without waiting for the
// listeners to bind, and reports listener errors (if any)
// asynchronously via the returned channel.
func (rt *Runtime) Start() <-chan error {
	ctx, cancel := context.WithCancel(context.Background())
	rt.cancel = cancel

	for _, d := range rt.actorDrivers {
		go d.Run(ctx)
	}
	for _, d := range rt.initiatorDrivers {
		go d.Run(ctx)
	}
	go rt.runGauges()
	rt.startHealthServer()

	errCh := make(chan error, len(rt.cfg.Listens))
	for _, l := range rt.cfg.Listens {
		addr := l.Addr()
		go func() {
			if err := rt.server.Start(addr); err != nil {
				log.Logger.Error().Err(err).Str("addr", addr).Msg("rpc listener exited")
				errCh <- err
			}
		}()
	}
	return errCh
}

// Stop tears every background goroutine down and releases storage, in
// roughly the reverse order Build/Start brought them up.
func (rt *Runtime) Stop() {
	if rt.cancel != nil {
		rt.cancel()
	}
	close(rt.gaugeStop)
	rt.stopHealthServer()

	for _, d := range rt.actorDrivers {
		d.Stop()
	}
	for _, d := range rt.initiatorDrivers {
		d.Stop()
	}

	rt.server.Stop()
	rt.registry.Stop()

	if rt.mqtt != nil {
		rt.mqtt.Disconnect(250)
	}

	if err := rt.auditLog.Close(); err != nil {
		log.Logger.Warn().Err(err).Msg("audit log close failed")
	}
	if err := rt.env.Close(); err != nil {
		log.Logger.Warn().Err(err).Msg("storage environment close failed")
	}
}
