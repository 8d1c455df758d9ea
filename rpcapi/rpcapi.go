// Package rpcapi defines the four-endpoint coordination protocol (§4.6,
// §6): plain Go request/response envelopes, the RpcTransport contract
// both the coordinator and worker program against, and the sentinel
// error kinds named in §7. Concrete wire transport lives in
// transport/grpcx; this package is transport-agnostic so the
// coordination logic is unit-testable without a gRPC server.
package rpcapi

import (
	"context"
	"errors"
)

// Sentinel error kinds (§7), tested with errors.Is. The transport
// adapter is the single place that maps these onto gRPC status codes.
var (
	// ErrBadRequest marks malformed input (e.g. an empty RegisterWorker
	// request, or a SubmitResult pixel buffer of the wrong size).
	ErrBadRequest = errors.New("rpcapi: bad request")

	// ErrUnauthenticated marks an unknown or forgotten worker id.
	ErrUnauthenticated = errors.New("rpcapi: unauthenticated")

	// ErrNotFound marks a task_id with no in-progress lease.
	ErrNotFound = errors.New("rpcapi: task not found")

	// ErrPermissionDenied marks a lease owned by a different worker.
	ErrPermissionDenied = errors.New("rpcapi: permission denied")

	// ErrTransport marks an I/O-level transport failure.
	ErrTransport = errors.New("rpcapi: transport error")

	// ErrFatal marks an invariant violation (e.g. an unknown node kind
	// surfacing during scene reconstruction).
	ErrFatal = errors.New("rpcapi: fatal invariant violation")
)

// HealthStatus is the coarse health state returned by HealthCheck.
type HealthStatus int

const (
	StatusUnknown HealthStatus = iota
	StatusServing
)

// HealthCheckRequest carries no fields; health is a standalone liveness
// probe.
type HealthCheckRequest struct{}

// HealthCheckResponse reports the coordinator's health.
type HealthCheckResponse struct {
	Status HealthStatus
}

// RegisterWorkerRequest identifies a joining worker by hostname.
type RegisterWorkerRequest struct {
	Hostname string
}

// RegisterWorkerResponse hands the new worker its identifier, the
// pre-serialized flat scene, and the render configuration — sent once,
// not repeated per task (§3).
type RegisterWorkerResponse struct {
	WorkerID   string
	SceneBytes []byte
	Config     RenderConfig
}

// RenderConfig mirrors render.Config's wire-relevant fields. It is
// declared here (rather than importing package render) so rpcapi has no
// dependency on the rendering engine — only on the shapes that cross the
// wire.
type RenderConfig struct {
	ImageWidth      int
	ImageHeight     int
	TileSize        int
	SamplesPerPixel int
	MaxDepth        int
}

// RequestTaskRequest asks for the next available tile.
type RequestTaskRequest struct {
	WorkerID string
}

// Tile mirrors render.Tile's wire-relevant fields.
type Tile struct {
	X0, Y0        int
	Width, Height int
	TaskID        int32
}

// RenderTask pairs a Tile with the sampling parameters it renders with,
// mirroring render.RenderTask (§3).
type RenderTask struct {
	Tile            Tile
	SamplesPerPixel int
	MaxDepth        int
}

// RequestTaskResponse reports whether a tile was assigned.
type RequestTaskResponse struct {
	HasAssignment bool
	Task          RenderTask
}

// SubmitResultRequest carries a finished tile's pixel data, encoded as
// flat bytes (w*h*3, one byte per channel) per §4.7. The tile's TaskID
// identifies the lease being completed.
type SubmitResultRequest struct {
	WorkerID  string
	Tile      Tile
	PixelData []byte
}

// SubmitResultResponse carries no fields; success is the absence of an
// error.
type SubmitResultResponse struct{}

// RpcTransport is the four-endpoint contract the coordinator serves and
// the worker calls. Implementations translate these calls onto a real
// wire transport (transport/grpcx) or, in tests, an in-process fake.
type RpcTransport interface {
	HealthCheck(ctx context.Context, req HealthCheckRequest) (HealthCheckResponse, error)
	RegisterWorker(ctx context.Context, req RegisterWorkerRequest) (RegisterWorkerResponse, error)
	RequestTask(ctx context.Context, req RequestTaskRequest) (RequestTaskResponse, error)
	SubmitResult(ctx context.Context, req SubmitResultRequest) (SubmitResultResponse, error)
}
