package routepb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/dynamicpb"
)

// OptimizationServer is the server side of the route optimization service.
type OptimizationServer interface {
	SubmitOptimization(ctx context.Context, req *RouteOptimizationRequest) (*SubmitOptimizationResponse, error)
	GetJobStatus(ctx context.Context, jobID string) (*JobStatusResponse, error)
	GetJobResult(ctx context.Context, jobID string) (*JobResultResponse, error)
	HealthCheck(ctx context.Context, serviceName string) (*HealthResponse, error)
}

func RegisterOptimizationServer(s grpc.ServiceRegistrar, srv OptimizationServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OptimizationServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodSubmitOptimization,
			Handler: unaryHandler(MethodSubmitOptimization, msgRouteOptimizationRequest,
				func(ctx context.Context, srv OptimizationServer, in *dynamicpb.Message) (*dynamicpb.Message, error) {
					resp, err := srv.SubmitOptimization(ctx, decodeRouteOptimizationRequest(in))
					if err != nil {
						return nil, err
					}
					return resp.marshal(), nil
				}),
		},
		{
			MethodName: MethodGetJobStatus,
			Handler: unaryHandler(MethodGetJobStatus, msgJobStatusRequest,
				func(ctx context.Context, srv OptimizationServer, in *dynamicpb.Message) (*dynamicpb.Message, error) {
					resp, err := srv.GetJobStatus(ctx, getString(in, "job_id"))
					if err != nil {
						return nil, err
					}
					return resp.marshal(), nil
				}),
		},
		{
			MethodName: MethodGetJobResult,
			Handler: unaryHandler(MethodGetJobResult, msgJobResultRequest,
				func(ctx context.Context, srv OptimizationServer, in *dynamicpb.Message) (*dynamicpb.Message, error) {
					resp, err := srv.GetJobResult(ctx, getString(in, "job_id"))
					if err != nil {
						return nil, err
					}
					return resp.marshal(), nil
				}),
		},
		{
			MethodName: MethodHealthCheck,
			Handler: unaryHandler(MethodHealthCheck, msgHealthRequest,
				func(ctx context.Context, srv OptimizationServer, in *dynamicpb.Message) (*dynamicpb.Message, error) {
					resp, err := srv.HealthCheck(ctx, getString(in, "service_name"))
					if err != nil {
						return nil, err
					}
					return resp.marshal(), nil
				}),
		},
	},
	Metadata: protoFile,
}

type handlerFunc func(ctx context.Context, srv OptimizationServer, in *dynamicpb.Message) (*dynamicpb.Message, error)

func unaryHandler(method, requestMessage string, h handlerFunc) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newMessage(requestMessage)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return h(ctx, srv.(OptimizationServer), in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return h(ctx, srv.(OptimizationServer), req.(*dynamicpb.Message))
		})
	}
}
