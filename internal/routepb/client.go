package routepb

import (
	"context"

	"google.golang.org/grpc"
)

// Client is a thin stub over a gRPC connection. It is safe for concurrent use.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) SubmitOptimization(ctx context.Context, req *RouteOptimizationRequest) (*SubmitOptimizationResponse, error) {
	out := newMessage(msgSubmitOptimizationResponse)
	if err := c.cc.Invoke(ctx, FullMethod(MethodSubmitOptimization), req.Marshal(), out); err != nil {
		return nil, err
	}
	return decodeSubmitOptimizationResponse(out), nil
}

func (c *Client) GetJobStatus(ctx context.Context, jobID string) (*JobStatusResponse, error) {
	out := newMessage(msgJobStatusResponse)
	if err := c.cc.Invoke(ctx, FullMethod(MethodGetJobStatus), jobIDMessage(msgJobStatusRequest, jobID), out); err != nil {
		return nil, err
	}
	return decodeJobStatusResponse(out), nil
}

func (c *Client) GetJobResult(ctx context.Context, jobID string) (*JobResultResponse, error) {
	out := newMessage(msgJobResultResponse)
	if err := c.cc.Invoke(ctx, FullMethod(MethodGetJobResult), jobIDMessage(msgJobResultRequest, jobID), out); err != nil {
		return nil, err
	}
	return decodeJobResultResponse(out), nil
}

func (c *Client) HealthCheck(ctx context.Context, serviceName string) (*HealthResponse, error) {
	out := newMessage(msgHealthResponse)
	if err := c.cc.Invoke(ctx, FullMethod(MethodHealthCheck), healthRequest(serviceName), out); err != nil {
		return nil, err
	}
	return decodeHealthResponse(out), nil
}
