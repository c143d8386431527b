package rpc

import (
	"crypto/tls"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/hsguild/warden/pkg/auth"
	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/resource"
	"github.com/hsguild/warden/pkg/roles"
	"github.com/hsguild/warden/pkg/session"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/users"
)

// apiVersion is the protocol version reported by ApiVersion.
const apiVersion = 1

// Release identifies the running server build, returned by ServerRelease.
type Release struct {
	Name    string
	Release string
}

// Server is warden's capability RPC surface, grounded on the
// teacher's NewServer/Start/Stop grpc.Server lifecycle.
type Server struct {
	gate     *auth.Gate
	dir      *users.Directory
	roleMap  roles.Map
	registry *resource.Registry
	release  Release

	mu           sync.Mutex
	authSessions map[string]*auth.Session
	sessions     map[string]*session.Session
	sessionConn  map[string]string
	connSessions map[string]map[string]struct{}

	grpc *grpc.Server
}

// NewServer builds a Server. tlsConfig is required; warden's wire
// protocol does not support plaintext connections.
func NewServer(gate *auth.Gate, dir *users.Directory, roleMap roles.Map, registry *resource.Registry, release Release, tlsConfig *tls.Config) *Server {
	s := &Server{
		gate:         gate,
		dir:          dir,
		roleMap:      roleMap,
		registry:     registry,
		release:      release,
		authSessions: make(map[string]*auth.Session),
		sessions:     make(map[string]*session.Session),
		sessionConn:  make(map[string]string),
		connSessions: make(map[string]map[string]struct{}),
	}

	creds := credentials.NewTLS(tlsConfig)
	s.grpc = grpc.NewServer(
		grpc.Creds(creds),
		grpc.UnaryInterceptor(metricsInterceptor),
		grpc.StatsHandler(s),
	)
	s.grpc.RegisterService(&serviceDesc, WardenServer(s))
	return s
}

// Start listens on addr and serves until Stop is called.
func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("rpc listen %s: %w", addr, err)
	}
	log.Logger.Info().Str("addr", addr).Msg("rpc server listening")
	return s.grpc.Serve(lis)
}

// Stop gracefully drains outstanding calls and releases every live
// session's claims. In the normal case HandleConn has already released
// each session as its connection closed during GracefulStop; this loop
// is only a backstop for whatever is still left in s.sessions.
func (s *Server) Stop() {
	s.grpc.GracefulStop()

	s.mu.Lock()
	tokens := make([]string, 0, len(s.sessions))
	for tok := range s.sessions {
		tokens = append(tokens, tok)
	}
	s.mu.Unlock()

	for _, tok := range tokens {
		s.registry.ReleaseSession(tok)
	}
}

// bindSessionConn records that token belongs to connID, so HandleConn
// can release it the moment that connection ends instead of waiting
// for Stop.
func (s *Server) bindSessionConn(tok, connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionConn[tok] = connID
	if s.connSessions[connID] == nil {
		s.connSessions[connID] = make(map[string]struct{})
	}
	s.connSessions[connID][tok] = struct{}{}
}

// releaseConn drops every session bound to connID and releases its
// ledger claims, called from HandleConn when that connection ends.
func (s *Server) releaseConn(connID string) {
	s.mu.Lock()
	toks := s.connSessions[connID]
	delete(s.connSessions, connID)
	tokens := make([]string, 0, len(toks))
	for tok := range toks {
		tokens = append(tokens, tok)
		delete(s.sessions, tok)
		delete(s.sessionConn, tok)
	}
	s.mu.Unlock()

	for _, tok := range tokens {
		s.registry.ReleaseSession(tok)
	}
}

func newToken() string { return uuid.NewString() }

func (s *Server) putAuthSession(as *auth.Session) string {
	tok := newToken()
	s.mu.Lock()
	s.authSessions[tok] = as
	s.mu.Unlock()
	return tok
}

func (s *Server) takeAuthSession(tok string) (*auth.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	as, ok := s.authSessions[tok]
	return as, ok
}

func (s *Server) dropAuthSession(tok string) {
	s.mu.Lock()
	delete(s.authSessions, tok)
	s.mu.Unlock()
}

func (s *Server) putSession(sess *session.Session, token string) {
	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()
}

func (s *Server) getSession(tok string) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[tok]
	return sess, ok
}

// buildSession resolves a user and role set into a live session.Session.
func (s *Server) buildSession(uid types.UserID) (*session.Session, error) {
	u, err := s.dir.Get(uid)
	if err != nil {
		return nil, err
	}
	perms := s.roleMap.Evaluate(u.Roles)
	return session.New(u, perms, s.registry), nil
}
