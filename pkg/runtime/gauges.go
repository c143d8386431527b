package runtime

import (
	"time"

	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/metrics"
)

// gaugeRefreshInterval bounds how stale warden_resources_total and
// warden_users_total can be; both gauges would otherwise only move on
// their own subsystem's mutation path, which users never touch on the
// RPC hot path and resources only touch on commit.
const gaugeRefreshInterval = 10 * time.Second

// runGauges periodically recomputes the resource-count-by-status and
// user-count gauges until gaugeStop is closed. The shape (ticker plus
// stopCh) follows the teacher's own reconciler loop, with one cycle
// here instead of two.
func (rt *Runtime) runGauges() {
	ticker := time.NewTicker(gaugeRefreshInterval)
	defer ticker.Stop()

	rt.refreshGauges()
	for {
		select {
		case <-ticker.C:
			rt.refreshGauges()
		case <-rt.gaugeStop:
			return
		}
	}
}

func (rt *Runtime) refreshGauges() {
	counts := make(map[string]float64)
	for _, r := range rt.registry.All() {
		counts[string(r.State().Kind)]++
	}
	metrics.ResourcesTotal.Reset()
	for status, n := range counts {
		metrics.ResourcesTotal.WithLabelValues(status).Set(n)
	}

	all, err := rt.dir.All()
	if err != nil {
		log.Logger.Warn().Err(err).Msg("gauge refresh failed to list users")
		return
	}
	metrics.UsersTotal.Set(float64(len(all)))
}
