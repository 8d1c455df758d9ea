// Package coordinator implements the tile work-queue, worker registry,
// and lease table described in §4.6: the coordination logic behind
// RegisterWorker/RequestTask/SubmitResult, kept transport-agnostic (it
// returns plain Go errors, wrapping the rpcapi sentinel kinds) so it is
// unit-testable without a gRPC server.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gazed/pathtrace/rpcapi"
	"github.com/gazed/pathtrace/vec"
)

// Lease records which worker holds a task and when it was handed out, so
// RequestTask can reclaim it after leaseTimeout elapses (§3, §4.6).
type Lease struct {
	Task     rpcapi.RenderTask
	WorkerID string
	LeasedAt time.Time
}

// Coordinator holds the entire mutable state of §4.6 behind a single
// mutex, with the two atomic counters the spec calls out as exceptions
// (tiles_completed, next_worker_id). It implements rpcapi.RpcTransport
// directly; the transport adapter wraps a Coordinator rather than
// reimplementing any of this logic.
type Coordinator struct {
	mu      sync.Mutex
	allDone *sync.Cond

	workQueue  []rpcapi.RenderTask
	inProgress map[int32]Lease
	registered map[string]struct{}

	tilesCompleted atomic.Int64
	totalTiles     int
	nextWorkerID   atomic.Int64

	pixels      []vec.Color
	imageWidth  int
	imageHeight int

	sceneBytes []byte
	config     rpcapi.RenderConfig

	leaseTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// Option overrides a Coordinator field at construction, the same
// functional-options shape as render.Option — small composable setters,
// used here mainly so tests can inject a fake clock or a short lease
// timeout.
type Option func(*Coordinator)

// WithLeaseTimeout overrides the default 120-second lease timeout.
func WithLeaseTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.leaseTimeout = d }
}

// WithClock overrides the time source, for deterministic lease-expiry
// tests (§8 scenario 4, "crashed worker").
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithLogger overrides the structured logger used for progress reports.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// New builds a Coordinator with its work queue seeded from tasks (one
// entry per tile, in raster order) and its pixel buffer sized for
// cfg.ImageWidth x cfg.ImageHeight.
func New(sceneBytes []byte, cfg rpcapi.RenderConfig, tasks []rpcapi.RenderTask, opts ...Option) *Coordinator {
	c := &Coordinator{
		workQueue:    append([]rpcapi.RenderTask(nil), tasks...),
		inProgress:   make(map[int32]Lease),
		registered:   make(map[string]struct{}),
		totalTiles:   len(tasks),
		pixels:       make([]vec.Color, cfg.ImageWidth*cfg.ImageHeight),
		imageWidth:   cfg.ImageWidth,
		imageHeight:  cfg.ImageHeight,
		sceneBytes:   sceneBytes,
		config:       cfg,
		leaseTimeout: 120 * time.Second,
		now:          time.Now,
		logger:       slog.Default(),
	}
	c.allDone = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HealthCheck implements rpcapi.RpcTransport. The coordinator is always
// serving once constructed; there is no degraded state.
func (c *Coordinator) HealthCheck(ctx context.Context, req rpcapi.HealthCheckRequest) (rpcapi.HealthCheckResponse, error) {
	return rpcapi.HealthCheckResponse{Status: rpcapi.StatusServing}, nil
}

// RegisterWorker implements rpcapi.RpcTransport.
func (c *Coordinator) RegisterWorker(ctx context.Context, req rpcapi.RegisterWorkerRequest) (rpcapi.RegisterWorkerResponse, error) {
	if req.Hostname == "" {
		return rpcapi.RegisterWorkerResponse{}, fmt.Errorf("%w: empty hostname", rpcapi.ErrBadRequest)
	}

	id := fmt.Sprintf("worker-%d", c.nextWorkerID.Add(1))

	c.mu.Lock()
	c.registered[id] = struct{}{}
	c.mu.Unlock()

	return rpcapi.RegisterWorkerResponse{WorkerID: id, SceneBytes: c.sceneBytes, Config: c.config}, nil
}

// RequestTask implements rpcapi.RpcTransport, following the algorithm in
// §4.6: validate the caller, reclaim any leases that have expired, then
// pop the next task off the queue if one is available.
func (c *Coordinator) RequestTask(ctx context.Context, req rpcapi.RequestTaskRequest) (rpcapi.RequestTaskResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registered[req.WorkerID]; !ok {
		return rpcapi.RequestTaskResponse{}, fmt.Errorf("%w: unknown worker %q", rpcapi.ErrUnauthenticated, req.WorkerID)
	}

	c.reclaimExpiredLeasesLocked()

	if len(c.workQueue) == 0 {
		return rpcapi.RequestTaskResponse{HasAssignment: false}, nil
	}

	task := c.workQueue[0]
	c.workQueue = c.workQueue[1:]
	c.inProgress[task.Tile.TaskID] = Lease{Task: task, WorkerID: req.WorkerID, LeasedAt: c.now()}

	return rpcapi.RequestTaskResponse{HasAssignment: true, Task: task}, nil
}

// reclaimExpiredLeasesLocked moves every lease older than leaseTimeout
// back onto the tail of the work queue. Callers must hold c.mu.
func (c *Coordinator) reclaimExpiredLeasesLocked() {
	now := c.now()
	for taskID, lease := range c.inProgress {
		if now.Sub(lease.LeasedAt) > c.leaseTimeout {
			c.workQueue = append(c.workQueue, lease.Task)
			delete(c.inProgress, taskID)
		}
	}
}

// SubmitResult implements rpcapi.RpcTransport, following §4.6: validate
// the caller and the lease, check the pixel buffer size, write the tile
// into the final image, then erase the lease and advance the completion
// counter.
func (c *Coordinator) SubmitResult(ctx context.Context, req rpcapi.SubmitResultRequest) (rpcapi.SubmitResultResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registered[req.WorkerID]; !ok {
		return rpcapi.SubmitResultResponse{}, fmt.Errorf("%w: unknown worker %q", rpcapi.ErrUnauthenticated, req.WorkerID)
	}

	lease, ok := c.inProgress[req.Tile.TaskID]
	if !ok {
		return rpcapi.SubmitResultResponse{}, fmt.Errorf("%w: task %d", rpcapi.ErrNotFound, req.Tile.TaskID)
	}
	if lease.WorkerID != req.WorkerID {
		return rpcapi.SubmitResultResponse{}, fmt.Errorf("%w: task %d is leased to %q, not %q", rpcapi.ErrPermissionDenied, req.Tile.TaskID, lease.WorkerID, req.WorkerID)
	}

	expected := req.Tile.Width * req.Tile.Height * 3
	if len(req.PixelData) != expected {
		return rpcapi.SubmitResultResponse{}, fmt.Errorf("%w: pixel buffer has %d bytes, want %d", rpcapi.ErrBadRequest, len(req.PixelData), expected)
	}

	c.writeTileLocked(req.Tile, req.PixelData)

	delete(c.inProgress, req.Tile.TaskID)
	completed := c.tilesCompleted.Add(1)

	c.logger.Info("tile completed", "tiles_completed", completed, "total_tiles", c.totalTiles)
	if completed == int64(c.totalTiles) {
		c.allDone.Broadcast()
	}

	return rpcapi.SubmitResultResponse{}, nil
}

// writeTileLocked decodes req's flat byte buffer back into linear color
// and writes it into the final image. The byte/255.999 divisor is the
// deliberately preserved asymmetric counterpart of the worker's
// floor(255.999*channel) encode (§9) — lossy by construction, since the
// spec's determinism guarantee is about re-renders, not round-trip byte
// fidelity.
func (c *Coordinator) writeTileLocked(tile rpcapi.Tile, data []byte) {
	for y := 0; y < tile.Height; y++ {
		for x := 0; x < tile.Width; x++ {
			offset := (y*tile.Width + x) * 3
			idx := (tile.Y0+y)*c.imageWidth + (tile.X0 + x)
			c.pixels[idx] = vec.New(
				float64(data[offset])/255.999,
				float64(data[offset+1])/255.999,
				float64(data[offset+2])/255.999,
			)
		}
	}
}

// WaitUntilDone blocks until tiles_completed reaches total_tiles, then
// returns the assembled pixel buffer along with the image dimensions.
func (c *Coordinator) WaitUntilDone() (pixels []vec.Color, width, height int) {
	c.mu.Lock()
	for c.tilesCompleted.Load() != int64(c.totalTiles) {
		c.allDone.Wait()
	}
	pixels = c.pixels
	width, height = c.imageWidth, c.imageHeight
	c.mu.Unlock()
	return pixels, width, height
}

// TilesCompleted returns the current completion count, for progress
// reporting and tests.
func (c *Coordinator) TilesCompleted() int64 { return c.tilesCompleted.Load() }

// TotalTiles returns the total tile count the queue was seeded with.
func (c *Coordinator) TotalTiles() int { return c.totalTiles }

// QueueLen reports the number of tasks still awaiting dispatch — exposed
// for the lease-safety property test.
func (c *Coordinator) QueueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.workQueue)
}

// LeaseCount reports the number of currently outstanding leases — exposed
// for the lease-safety property test.
func (c *Coordinator) LeaseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inProgress)
}
