package rpc

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/stats"
)

// connIDKey tags a connection's context with a generated id. grpc
// derives every RPC's context from the one TagConn returns here, so
// the same id is visible inside Step's handler and lets it record
// which connection a session token belongs to.
type connIDKey struct{}

// TagConn and HandleConn together replace the per-connection
// disconnect hook a streaming service would get for free: warden's
// RPCs are all unary, so a dropped TLS connection has no other
// lifecycle signal to hang session cleanup off of.

func (s *Server) TagConn(ctx context.Context, _ *stats.ConnTagInfo) context.Context {
	return context.WithValue(ctx, connIDKey{}, uuid.NewString())
}

func (s *Server) HandleConn(ctx context.Context, stat stats.ConnStats) {
	if _, ok := stat.(*stats.ConnEnd); !ok {
		return
	}
	if connID, ok := connIDFromContext(ctx); ok {
		s.releaseConn(connID)
	}
}

// TagRPC and HandleRPC are required by stats.Handler but warden has no
// use for per-RPC stats; metricsInterceptor already records count and
// duration for every call.
func (s *Server) TagRPC(ctx context.Context, _ *stats.RPCTagInfo) context.Context { return ctx }
func (s *Server) HandleRPC(context.Context, stats.RPCStats)                      {}

func connIDFromContext(ctx context.Context) (string, bool) {
	connID, ok := ctx.Value(connIDKey{}).(string)
	return connID, ok
}
