package grpcx

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/gazed/pathtrace/rpcapi"
)

// stubCoordinator is a minimal rpcapi.RpcTransport implementation used to
// exercise the real grpc wire path end to end, independent of package
// coordinator's actual bookkeeping.
type stubCoordinator struct{}

func (stubCoordinator) HealthCheck(ctx context.Context, req rpcapi.HealthCheckRequest) (rpcapi.HealthCheckResponse, error) {
	return rpcapi.HealthCheckResponse{Status: rpcapi.StatusServing}, nil
}

func (stubCoordinator) RegisterWorker(ctx context.Context, req rpcapi.RegisterWorkerRequest) (rpcapi.RegisterWorkerResponse, error) {
	if req.Hostname == "" {
		return rpcapi.RegisterWorkerResponse{}, rpcapi.ErrBadRequest
	}
	return rpcapi.RegisterWorkerResponse{WorkerID: "w1", SceneBytes: []byte("scene"), Config: rpcapi.RenderConfig{ImageWidth: 4, ImageHeight: 4}}, nil
}

func (stubCoordinator) RequestTask(ctx context.Context, req rpcapi.RequestTaskRequest) (rpcapi.RequestTaskResponse, error) {
	if req.WorkerID != "w1" {
		return rpcapi.RequestTaskResponse{}, rpcapi.ErrUnauthenticated
	}
	return rpcapi.RequestTaskResponse{HasAssignment: true, Task: rpcapi.RenderTask{Tile: rpcapi.Tile{Width: 2, Height: 2, TaskID: 7}}}, nil
}

func (stubCoordinator) SubmitResult(ctx context.Context, req rpcapi.SubmitResultRequest) (rpcapi.SubmitResultResponse, error) {
	if req.Tile.TaskID != 7 {
		return rpcapi.SubmitResultResponse{}, rpcapi.ErrNotFound
	}
	return rpcapi.SubmitResultResponse{}, nil
}

func dialBufconn(t *testing.T, impl rpcapi.RpcTransport) (*Client, func()) {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	server := NewServer(impl)
	go server.Serve(lis)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}
	client := &Client{conn: conn}
	cleanup := func() {
		conn.Close()
		server.Stop()
	}
	return client, cleanup
}

func TestClientServerRoundTrip(t *testing.T) {
	client, cleanup := dialBufconn(t, stubCoordinator{})
	defer cleanup()

	health, err := client.HealthCheck(context.Background(), rpcapi.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if health.Status != rpcapi.StatusServing {
		t.Errorf("status = %v, want StatusServing", health.Status)
	}

	reg, err := client.RegisterWorker(context.Background(), rpcapi.RegisterWorkerRequest{Hostname: "host-a"})
	if err != nil {
		t.Fatalf("RegisterWorker: %v", err)
	}
	if reg.WorkerID != "w1" {
		t.Errorf("worker id = %q, want w1", reg.WorkerID)
	}

	task, err := client.RequestTask(context.Background(), rpcapi.RequestTaskRequest{WorkerID: "w1"})
	if err != nil {
		t.Fatalf("RequestTask: %v", err)
	}
	if !task.HasAssignment || task.Task.Tile.TaskID != 7 {
		t.Errorf("unexpected task response: %+v", task)
	}

	_, err = client.SubmitResult(context.Background(), rpcapi.SubmitResultRequest{
		WorkerID: "w1", Tile: rpcapi.Tile{TaskID: 7, Width: 2, Height: 2}, PixelData: make([]byte, 12),
	})
	if err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}
}

func TestClientSurfacesStatusCodesAsSentinelErrors(t *testing.T) {
	client, cleanup := dialBufconn(t, stubCoordinator{})
	defer cleanup()

	_, err := client.RegisterWorker(context.Background(), rpcapi.RegisterWorkerRequest{})
	if !errors.Is(err, rpcapi.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}

	_, err = client.RequestTask(context.Background(), rpcapi.RequestTaskRequest{WorkerID: "ghost"})
	if !errors.Is(err, rpcapi.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}

	_, err = client.SubmitResult(context.Background(), rpcapi.SubmitResultRequest{WorkerID: "w1", Tile: rpcapi.Tile{TaskID: 99}})
	if !errors.Is(err, rpcapi.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
