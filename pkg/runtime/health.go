package runtime

import (
	"context"
	"net/http"
	"time"

	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/metrics"
)

const healthServerShutdownTimeout = 5 * time.Second

// startHealthServer mounts /metrics alongside /healthz, /readyz and
// /livez on cfg.MetricsAddr. It is optional: an operator who only
// wants the RPC surface can leave MetricsAddr unset.
func (rt *Runtime) startHealthServer() {
	if rt.cfg.MetricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/healthz", metrics.HealthHandler())
	mux.Handle("/readyz", metrics.ReadyHandler())
	mux.Handle("/livez", metrics.LivenessHandler())

	rt.healthServer = &http.Server{Addr: rt.cfg.MetricsAddr, Handler: mux}
	go func() {
		if err := rt.healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger.Warn().Err(err).Str("addr", rt.cfg.MetricsAddr).Msg("metrics server stopped")
		}
	}()
}

func (rt *Runtime) stopHealthServer() {
	if rt.healthServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), healthServerShutdownTimeout)
	defer cancel()
	if err := rt.healthServer.Shutdown(ctx); err != nil {
		log.Logger.Warn().Err(err).Msg("metrics server shutdown failed")
	}
}
