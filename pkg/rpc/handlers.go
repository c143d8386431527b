package rpc

import (
	"context"

	"github.com/hsguild/warden/pkg/auth"
	"github.com/hsguild/warden/pkg/session"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/werr"
)

// connOverTLS is always true: the server only accepts TLS connections
// (see NewServer's grpc.Creds(creds)), so every mechanism policy check
// sees overTLS=true. A plaintext listener would need to thread the
// real value through from the transport credentials instead.
const connOverTLS = true

func (s *Server) ApiVersion(ctx context.Context, in *ApiVersionRequest) (*ApiVersionResponse, error) {
	return &ApiVersionResponse{Version: apiVersion}, nil
}

func (s *Server) ServerRelease(ctx context.Context, in *ServerReleaseRequest) (*ServerReleaseResponse, error) {
	return &ServerReleaseResponse{Name: s.release.Name, Release: s.release.Release}, nil
}

func (s *Server) Mechanisms(ctx context.Context, in *MechanismsRequest) (*MechanismsResponse, error) {
	names := s.gate.ListAvailableMechanisms(connOverTLS)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return &MechanismsResponse{Names: out}, nil
}

func (s *Server) CreateSession(ctx context.Context, in *CreateSessionRequest) (*CreateSessionResponse, error) {
	as, err := s.gate.Start(auth.MechName(in.Mechanism), connOverTLS)
	if err != nil {
		return nil, err
	}
	return &CreateSessionResponse{Token: s.putAuthSession(as)}, nil
}

func (s *Server) Step(ctx context.Context, in *StepRequest) (*StepResponse, error) {
	as, ok := s.takeAuthSession(in.Token)
	if !ok {
		return nil, werr.New(werr.Unauthenticated, "unknown auth token")
	}

	challenge, done, err := as.Step(in.Data)
	if err != nil {
		s.dropAuthSession(in.Token)
		return &StepResponse{Outcome: OutcomeFailed}, err
	}
	if !done {
		return &StepResponse{Outcome: OutcomeContinue, Challenge: challenge}, nil
	}

	s.dropAuthSession(in.Token)
	sess, err := s.buildSession(as.Identity().UserID)
	if err != nil {
		return &StepResponse{Outcome: OutcomeFailed}, err
	}
	tok := newToken()
	s.putSession(sess, tok)
	if connID, ok := connIDFromContext(ctx); ok {
		s.bindSessionConn(tok, connID)
	}
	return &StepResponse{Outcome: OutcomeDone, SessionToken: tok}, nil
}

func (s *Server) Abort(ctx context.Context, in *AbortRequest) (*AbortResponse, error) {
	if as, ok := s.takeAuthSession(in.Token); ok {
		as.Abort()
		s.dropAuthSession(in.Token)
	}
	return &AbortResponse{}, nil
}

func (s *Server) GetMachineList(ctx context.Context, in *GetMachineListRequest) (*GetMachineListResponse, error) {
	sess, err := s.sessionFor(in.Session)
	if err != nil {
		return nil, err
	}
	var out []MachineDescription
	for _, r := range s.registry.All() {
		if !sess.HasDisclose(r.Description().ID) {
			continue
		}
		out = append(out, describeMachine(r.Description(), r.State()))
	}
	return &GetMachineListResponse{Machines: out}, nil
}

func (s *Server) GetMachine(ctx context.Context, in *GetMachineRequest) (*GetMachineResponse, error) {
	return s.getMachineByID(in.Session, types.ResourceID(in.ID))
}

func (s *Server) GetMachineURN(ctx context.Context, in *GetMachineURNRequest) (*GetMachineResponse, error) {
	for _, r := range s.registry.All() {
		if r.Description().URN() == in.URN {
			return s.getMachineByID(in.Session, r.Description().ID)
		}
	}
	return nil, werr.New(werr.NotFound, "no machine with that urn")
}

func (s *Server) getMachineByID(sessionToken string, id types.ResourceID) (*GetMachineResponse, error) {
	sess, err := s.sessionFor(sessionToken)
	if err != nil {
		return nil, err
	}
	if !sess.HasDisclose(id) {
		return nil, werr.New(werr.PermissionDenied, "disclose denied")
	}
	r, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return &GetMachineResponse{Machine: describeMachine(r.Description(), r.State())}, nil
}

func (s *Server) MachineState(ctx context.Context, in *MachineStateRequest) (*MachineStateResponse, error) {
	sess, err := s.sessionFor(in.Session)
	if err != nil {
		return nil, err
	}
	id := types.ResourceID(in.ID)
	if !sess.HasRead(id) {
		return nil, werr.New(werr.PermissionDenied, "read denied")
	}
	r, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return &MachineStateResponse{State: r.State().String()}, nil
}

func (s *Server) MachinePropose(ctx context.Context, in *MachineProposeRequest) (*MachineProposeResponse, error) {
	sess, err := s.sessionFor(in.Session)
	if err != nil {
		return nil, err
	}
	id := types.ResourceID(in.ID)
	if !sess.HasWrite(id) {
		return nil, werr.New(werr.PermissionDenied, "write denied")
	}
	r, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	caller := sess.User.ID
	next := wireToStatus(in.Kind, in.User)
	if err := r.Propose(caller, next, false); err != nil {
		return nil, err
	}
	if next.Kind == types.InUse && next.User == caller {
		if err := r.AddClaim(in.Session, types.ClaimEntry{
			Subject: caller,
			Target:  id,
			Level:   types.LevelClaim,
		}); err != nil {
			return nil, err
		}
	}
	return &MachineProposeResponse{}, nil
}

func (s *Server) MachineRelease(ctx context.Context, in *MachineReleaseRequest) (*MachineReleaseResponse, error) {
	sess, err := s.sessionFor(in.Session)
	if err != nil {
		return nil, err
	}
	id := types.ResourceID(in.ID)
	if !sess.HasWrite(id) {
		return nil, werr.New(werr.PermissionDenied, "write denied")
	}
	r, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if err := r.Release(sess.User.ID); err != nil {
		return nil, err
	}
	return &MachineReleaseResponse{}, nil
}

func (s *Server) MachineForce(ctx context.Context, in *MachineForceRequest) (*MachineForceResponse, error) {
	sess, err := s.sessionFor(in.Session)
	if err != nil {
		return nil, err
	}
	id := types.ResourceID(in.ID)
	if !sess.HasManage(id) {
		return nil, werr.New(werr.PermissionDenied, "manage denied")
	}
	r, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	next := wireToStatus(in.Kind, in.User)
	if err := r.Force(sess.User.ID, next); err != nil {
		return nil, err
	}
	return &MachineForceResponse{}, nil
}

func (s *Server) GetUserSelf(ctx context.Context, in *GetUserSelfRequest) (*GetUserSelfResponse, error) {
	sess, err := s.sessionFor(in.Session)
	if err != nil {
		return nil, err
	}
	return &GetUserSelfResponse{User: userInfo(sess.User)}, nil
}

func (s *Server) GetUserList(ctx context.Context, in *GetUserListRequest) (*GetUserListResponse, error) {
	if _, err := s.managerSession(in.Session); err != nil {
		return nil, err
	}
	users, err := s.dir.All()
	if err != nil {
		return nil, err
	}
	out := make([]UserInfo, len(users))
	for i, u := range users {
		out[i] = userInfo(u)
	}
	return &GetUserListResponse{Users: out}, nil
}

func (s *Server) AddUser(ctx context.Context, in *AddUserRequest) (*AddUserResponse, error) {
	if _, err := s.managerSession(in.Session); err != nil {
		return nil, err
	}
	u := types.User{ID: types.UserID(in.Name)}
	if err := s.dir.Put(u); err != nil {
		return nil, err
	}
	if in.Password != "" {
		if err := s.dir.SetPassword(u.ID, in.Password); err != nil {
			return nil, err
		}
	}
	return &AddUserResponse{}, nil
}

func (s *Server) RemoveUser(ctx context.Context, in *RemoveUserRequest) (*RemoveUserResponse, error) {
	if _, err := s.managerSession(in.Session); err != nil {
		return nil, err
	}
	if err := s.dir.Delete(types.UserID(in.UserRef)); err != nil {
		return nil, err
	}
	return &RemoveUserResponse{}, nil
}

func (s *Server) GetRoleList(ctx context.Context, in *GetRoleListRequest) (*GetRoleListResponse, error) {
	sess, err := s.sessionFor(in.Session)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(sess.User.Roles))
	for i, r := range sess.User.Roles {
		names[i] = r.String()
	}
	return &GetRoleListResponse{Roles: names}, nil
}

// sessionFor resolves a session token, failing Unauthenticated if it
// is missing or has never existed.
func (s *Server) sessionFor(token string) (*session.Session, error) {
	sess, ok := s.getSession(token)
	if !ok {
		return nil, werr.New(werr.Unauthenticated, "unknown session token")
	}
	return sess, nil
}

// managerSession additionally requires the session's user holds a
// role that grants at least one resource's manage permission, used as
// the stand-in for "administrator" on the user-management calls,
// which spec.md §4.10 gates on the manage capability rather than on
// any single resource.
func (s *Server) managerSession(token string) (*session.Session, error) {
	sess, err := s.sessionFor(token)
	if err != nil {
		return nil, err
	}
	for _, r := range s.registry.All() {
		if sess.HasManage(r.Description().ID) {
			return sess, nil
		}
	}
	return nil, werr.New(werr.PermissionDenied, "manage denied")
}

func userInfo(u types.User) UserInfo {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = r.String()
	}
	return UserInfo{ID: string(u.ID), Roles: roles}
}
