package grpcx

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gazed/pathtrace/rpcapi"
)

// serviceName is the fully qualified gRPC service name, stood in for the
// package/service pair a .proto file would otherwise declare.
const serviceName = "pathtrace.Coordination"

// ServiceDesc is the hand-registered grpc.ServiceDesc for the four
// coordination endpoints (§4.6, §6). grpc.Server.RegisterService uses
// HandlerType purely as a type-assertion target when a concrete
// implementation is registered, so any rpcapi.RpcTransport works here
// without a generated server interface.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*rpcapi.RpcTransport)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "HealthCheck", Handler: healthCheckHandler},
		{MethodName: "RegisterWorker", Handler: registerWorkerHandler},
		{MethodName: "RequestTask", Handler: requestTaskHandler},
		{MethodName: "SubmitResult", Handler: submitResultHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpcapi/coordination.proto",
}

func healthCheckHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(rpcapi.HealthCheckRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	run := func(ctx context.Context, req interface{}) (interface{}, error) {
		resp, err := srv.(rpcapi.RpcTransport).HealthCheck(ctx, *req.(*rpcapi.HealthCheckRequest))
		return resp, mapError(err)
	}
	if interceptor == nil {
		return run(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/HealthCheck"}
	return interceptor(ctx, in, info, run)
}

func registerWorkerHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(rpcapi.RegisterWorkerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	run := func(ctx context.Context, req interface{}) (interface{}, error) {
		resp, err := srv.(rpcapi.RpcTransport).RegisterWorker(ctx, *req.(*rpcapi.RegisterWorkerRequest))
		return resp, mapError(err)
	}
	if interceptor == nil {
		return run(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/RegisterWorker"}
	return interceptor(ctx, in, info, run)
}

func requestTaskHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(rpcapi.RequestTaskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	run := func(ctx context.Context, req interface{}) (interface{}, error) {
		resp, err := srv.(rpcapi.RpcTransport).RequestTask(ctx, *req.(*rpcapi.RequestTaskRequest))
		return resp, mapError(err)
	}
	if interceptor == nil {
		return run(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/RequestTask"}
	return interceptor(ctx, in, info, run)
}

func submitResultHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(rpcapi.SubmitResultRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	run := func(ctx context.Context, req interface{}) (interface{}, error) {
		resp, err := srv.(rpcapi.RpcTransport).SubmitResult(ctx, *req.(*rpcapi.SubmitResultRequest))
		return resp, mapError(err)
	}
	if interceptor == nil {
		return run(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/SubmitResult"}
	return interceptor(ctx, in, info, run)
}

// mapError translates an rpcapi sentinel-wrapped error into the matching
// gRPC status code (§7: "the transport adapter is the single place that
// maps them to codes.Code values").
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, rpcapi.ErrBadRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, rpcapi.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, rpcapi.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, rpcapi.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// NewServer returns a *grpc.Server with impl registered against
// ServiceDesc. The server decodes each call with whichever registered
// codec the call's content-subtype names; Client always selects the gob
// codec registered in codec.go.
func NewServer(impl rpcapi.RpcTransport) *grpc.Server {
	s := grpc.NewServer()
	s.RegisterService(&ServiceDesc, impl)
	return s
}
