package rpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"

	"github.com/hsguild/warden/pkg/metrics"
	"github.com/hsguild/warden/pkg/werr"
)

// metricsInterceptor records a count and a duration for every RPC
// call, labeled by the bare method name (the service prefix carries
// no information worth a cardinality dimension).
func metricsInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	method := methodName(info.FullMethod)
	timer := metrics.NewTimer()

	resp, err := handler(ctx, req)

	timer.ObserveDuration(metrics.RPCRequestDuration.WithLabelValues(method))
	metrics.RPCRequestsTotal.WithLabelValues(method, outcomeLabel(err)).Inc()
	return resp, err
}

func methodName(fullMethod string) string {
	if idx := strings.LastIndexByte(fullMethod, '/'); idx >= 0 {
		return fullMethod[idx+1:]
	}
	return fullMethod
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return string(werr.KindOf(err))
}
