package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// unaryHandler adapts a (*Server, context.Context, *Req) -> (*Resp, error)
// method into the grpc.MethodDesc handler shape, wiring the request
// through the registered UnaryServerInterceptor the same way
// protoc-gen-go-grpc generated code does. This is the one piece of
// plumbing that stands in for the code a .proto file would normally
// generate.
func unaryHandler[Req any, Resp any](method string, call func(s *Server, ctx context.Context, in *Req) (*Resp, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		s := srv.(*Server)
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(s, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// WardenServer is implemented by *Server; it exists so generated-style
// handler code can refer to an interface rather than the concrete
// type, matching the shape of a protoc-gen-go-grpc server interface.
type WardenServer interface {
	ApiVersion(context.Context, *ApiVersionRequest) (*ApiVersionResponse, error)
	ServerRelease(context.Context, *ServerReleaseRequest) (*ServerReleaseResponse, error)
	Mechanisms(context.Context, *MechanismsRequest) (*MechanismsResponse, error)
	CreateSession(context.Context, *CreateSessionRequest) (*CreateSessionResponse, error)
	Step(context.Context, *StepRequest) (*StepResponse, error)
	Abort(context.Context, *AbortRequest) (*AbortResponse, error)
	GetMachineList(context.Context, *GetMachineListRequest) (*GetMachineListResponse, error)
	GetMachine(context.Context, *GetMachineRequest) (*GetMachineResponse, error)
	GetMachineURN(context.Context, *GetMachineURNRequest) (*GetMachineResponse, error)
	MachineState(context.Context, *MachineStateRequest) (*MachineStateResponse, error)
	MachinePropose(context.Context, *MachineProposeRequest) (*MachineProposeResponse, error)
	MachineRelease(context.Context, *MachineReleaseRequest) (*MachineReleaseResponse, error)
	MachineForce(context.Context, *MachineForceRequest) (*MachineForceResponse, error)
	GetUserSelf(context.Context, *GetUserSelfRequest) (*GetUserSelfResponse, error)
	GetUserList(context.Context, *GetUserListRequest) (*GetUserListResponse, error)
	AddUser(context.Context, *AddUserRequest) (*AddUserResponse, error)
	RemoveUser(context.Context, *RemoveUserRequest) (*RemoveUserResponse, error)
	GetRoleList(context.Context, *GetRoleListRequest) (*GetRoleListResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "warden.Warden",
	HandlerType: (*WardenServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ApiVersion", Handler: unaryHandler("/warden.Warden/ApiVersion", func(s *Server, ctx context.Context, in *ApiVersionRequest) (*ApiVersionResponse, error) {
			return s.ApiVersion(ctx, in)
		})},
		{MethodName: "ServerRelease", Handler: unaryHandler("/warden.Warden/ServerRelease", func(s *Server, ctx context.Context, in *ServerReleaseRequest) (*ServerReleaseResponse, error) {
			return s.ServerRelease(ctx, in)
		})},
		{MethodName: "Mechanisms", Handler: unaryHandler("/warden.Warden/Mechanisms", func(s *Server, ctx context.Context, in *MechanismsRequest) (*MechanismsResponse, error) {
			return s.Mechanisms(ctx, in)
		})},
		{MethodName: "CreateSession", Handler: unaryHandler("/warden.Warden/CreateSession", func(s *Server, ctx context.Context, in *CreateSessionRequest) (*CreateSessionResponse, error) {
			return s.CreateSession(ctx, in)
		})},
		{MethodName: "Step", Handler: unaryHandler("/warden.Warden/Step", func(s *Server, ctx context.Context, in *StepRequest) (*StepResponse, error) {
			return s.Step(ctx, in)
		})},
		{MethodName: "Abort", Handler: unaryHandler("/warden.Warden/Abort", func(s *Server, ctx context.Context, in *AbortRequest) (*AbortResponse, error) {
			return s.Abort(ctx, in)
		})},
		{MethodName: "GetMachineList", Handler: unaryHandler("/warden.Warden/GetMachineList", func(s *Server, ctx context.Context, in *GetMachineListRequest) (*GetMachineListResponse, error) {
			return s.GetMachineList(ctx, in)
		})},
		{MethodName: "GetMachine", Handler: unaryHandler("/warden.Warden/GetMachine", func(s *Server, ctx context.Context, in *GetMachineRequest) (*GetMachineResponse, error) {
			return s.GetMachine(ctx, in)
		})},
		{MethodName: "GetMachineURN", Handler: unaryHandler("/warden.Warden/GetMachineURN", func(s *Server, ctx context.Context, in *GetMachineURNRequest) (*GetMachineResponse, error) {
			return s.GetMachineURN(ctx, in)
		})},
		{MethodName: "MachineState", Handler: unaryHandler("/warden.Warden/MachineState", func(s *Server, ctx context.Context, in *MachineStateRequest) (*MachineStateResponse, error) {
			return s.MachineState(ctx, in)
		})},
		{MethodName: "MachinePropose", Handler: unaryHandler("/warden.Warden/MachinePropose", func(s *Server, ctx context.Context, in *MachineProposeRequest) (*MachineProposeResponse, error) {
			return s.MachinePropose(ctx, in)
		})},
		{MethodName: "MachineRelease", Handler: unaryHandler("/warden.Warden/MachineRelease", func(s *Server, ctx context.Context, in *MachineReleaseRequest) (*MachineReleaseResponse, error) {
			return s.MachineRelease(ctx, in)
		})},
		{MethodName: "MachineForce", Handler: unaryHandler("/warden.Warden/MachineForce", func(s *Server, ctx context.Context, in *MachineForceRequest) (*MachineForceResponse, error) {
			return s.MachineForce(ctx, in)
		})},
		{MethodName: "GetUserSelf", Handler: unaryHandler("/warden.Warden/GetUserSelf", func(s *Server, ctx context.Context, in *GetUserSelfRequest) (*GetUserSelfResponse, error) {
			return s.GetUserSelf(ctx, in)
		})},
		{MethodName: "GetUserList", Handler: unaryHandler("/warden.Warden/GetUserList", func(s *Server, ctx context.Context, in *GetUserListRequest) (*GetUserListResponse, error) {
			return s.GetUserList(ctx, in)
		})},
		{MethodName: "AddUser", Handler: unaryHandler("/warden.Warden/AddUser", func(s *Server, ctx context.Context, in *AddUserRequest) (*AddUserResponse, error) {
			return s.AddUser(ctx, in)
		})},
		{MethodName: "RemoveUser", Handler: unaryHandler("/warden.Warden/RemoveUser", func(s *Server, ctx context.Context, in *RemoveUserRequest) (*RemoveUserResponse, error) {
			return s.RemoveUser(ctx, in)
		})},
		{MethodName: "GetRoleList", Handler: unaryHandler("/warden.Warden/GetRoleList", func(s *Server, ctx context.Context, in *GetRoleListRequest) (*GetRoleListResponse, error) {
			return s.GetRoleList(ctx, in)
		})},
	},
	Metadata: "warden.proto",
}
