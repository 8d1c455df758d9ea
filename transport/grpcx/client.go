package grpcx

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/gazed/pathtrace/rpcapi"
)

// Client implements rpcapi.RpcTransport by invoking the four methods of
// ServiceDesc over a real grpc.ClientConn.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to a coordinator at address, negotiating the gob codec
// on every call.
func Dial(address string) (*Client, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpcx: dialing %s: %w", address, err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) callOpts() []grpc.CallOption {
	return []grpc.CallOption{grpc.CallContentSubtype(codecName)}
}

func (c *Client) HealthCheck(ctx context.Context, req rpcapi.HealthCheckRequest) (rpcapi.HealthCheckResponse, error) {
	var out rpcapi.HealthCheckResponse
	err := c.conn.Invoke(ctx, "/"+serviceName+"/HealthCheck", &req, &out, c.callOpts()...)
	return out, unmapError(err)
}

func (c *Client) RegisterWorker(ctx context.Context, req rpcapi.RegisterWorkerRequest) (rpcapi.RegisterWorkerResponse, error) {
	var out rpcapi.RegisterWorkerResponse
	err := c.conn.Invoke(ctx, "/"+serviceName+"/RegisterWorker", &req, &out, c.callOpts()...)
	return out, unmapError(err)
}

func (c *Client) RequestTask(ctx context.Context, req rpcapi.RequestTaskRequest) (rpcapi.RequestTaskResponse, error) {
	var out rpcapi.RequestTaskResponse
	err := c.conn.Invoke(ctx, "/"+serviceName+"/RequestTask", &req, &out, c.callOpts()...)
	return out, unmapError(err)
}

func (c *Client) SubmitResult(ctx context.Context, req rpcapi.SubmitResultRequest) (rpcapi.SubmitResultResponse, error) {
	var out rpcapi.SubmitResultResponse
	err := c.conn.Invoke(ctx, "/"+serviceName+"/SubmitResult", &req, &out, c.callOpts()...)
	return out, unmapError(err)
}

// unmapError reverses mapError: a status error coming back from the wire
// is translated back into the matching rpcapi sentinel so worker-side
// logic can keep using errors.Is against the same kinds the coordinator
// returns internally. A non-status (pure transport/connection) failure
// becomes rpcapi.ErrTransport.
func unmapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", rpcapi.ErrTransport, err)
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", rpcapi.ErrBadRequest, st.Message())
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", rpcapi.ErrUnauthenticated, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", rpcapi.ErrNotFound, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", rpcapi.ErrPermissionDenied, st.Message())
	case codes.OK:
		return nil
	default:
		return fmt.Errorf("%w: %s", rpcapi.ErrTransport, st.Message())
	}
}
