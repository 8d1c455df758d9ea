// Package worker implements the registration, pull-loop, render and
// submit cycle described in §4.7: a single-threaded consumer of the
// coordinator's tile queue, reconnecting on a forgotten registration and
// retrying transport failures with a fixed backoff.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gazed/pathtrace/camera"
	"github.com/gazed/pathtrace/render"
	"github.com/gazed/pathtrace/rpcapi"
	"github.com/gazed/pathtrace/scene"
	"github.com/gazed/pathtrace/vec"
)

// retryBackoff is the fixed sleep between retries of a failed RPC other
// than UNAUTHENTICATED (§4.7).
const retryBackoff = 1 * time.Second

// Worker owns a reconstructed scene graph and camera for its entire
// lifetime; neither is ever mutated once built (§4.7 closing note).
type Worker struct {
	transport rpcapi.RpcTransport
	hostname  string
	logger    *slog.Logger
	sleep     func(time.Duration)

	workerID string
	cfg      rpcapi.RenderConfig
	world    scene.Scene
	cam      *camera.Camera
}

// Option overrides a Worker field at construction.
type Option func(*Worker)

// WithLogger overrides the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

// withSleep overrides the backoff sleep function, for tests that must not
// actually block for a second per retry.
func withSleep(sleep func(time.Duration)) Option {
	return func(w *Worker) { w.sleep = sleep }
}

// New returns a Worker bound to transport, unregistered until Run (or
// Register) is called.
func New(transport rpcapi.RpcTransport, hostname string, opts ...Option) *Worker {
	w := &Worker{
		transport: transport,
		hostname:  hostname,
		logger:    slog.Default(),
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register performs the initial RegisterWorker call, storing the issued
// worker id, the render configuration, and the reconstructed scene graph
// and camera (§4.7 step 1).
func (w *Worker) Register(ctx context.Context) error {
	resp, err := w.transport.RegisterWorker(ctx, rpcapi.RegisterWorkerRequest{Hostname: w.hostname})
	if err != nil {
		return fmt.Errorf("worker: registering: %w", err)
	}

	flat, err := scene.DecodeFlat(resp.SceneBytes)
	if err != nil {
		return fmt.Errorf("%w: decoding scene bytes: %v", rpcapi.ErrFatal, err)
	}
	built, err := scene.Deserialize(flat)
	if err != nil {
		return fmt.Errorf("%w: reconstructing scene graph: %v", rpcapi.ErrFatal, err)
	}

	w.workerID = resp.WorkerID
	w.cfg = resp.Config
	w.world = built
	w.cam = camera.New(built.Camera, resp.Config.ImageWidth, resp.Config.ImageHeight)
	return nil
}

// Run executes §4.7 steps 2 and 3: a health check followed by the
// pull-render-submit loop, returning nil on a clean exit (no more tiles)
// or an error on an unrecoverable failure.
func (w *Worker) Run(ctx context.Context) error {
	if w.workerID == "" {
		if err := w.Register(ctx); err != nil {
			return err
		}
	}

	health, err := w.transport.HealthCheck(ctx, rpcapi.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("worker: health check: %w", err)
	}
	if health.Status != rpcapi.StatusServing {
		return fmt.Errorf("worker: coordinator reported unhealthy status %d", health.Status)
	}

	for {
		resp, err := w.transport.RequestTask(ctx, rpcapi.RequestTaskRequest{WorkerID: w.workerID})
		if err != nil {
			if errors.Is(err, rpcapi.ErrUnauthenticated) {
				w.logger.Warn("worker id forgotten by coordinator, re-registering")
				if err := w.Register(ctx); err != nil {
					return err
				}
				continue
			}
			w.logger.Warn("transport error requesting task, retrying", "error", err)
			w.sleep(retryBackoff)
			continue
		}

		if !resp.HasAssignment {
			return nil
		}

		if err := w.renderAndSubmit(ctx, resp.Task); err != nil {
			if errors.Is(err, rpcapi.ErrUnauthenticated) {
				w.logger.Warn("worker id forgotten by coordinator during submit, re-registering")
				if err := w.Register(ctx); err != nil {
					return err
				}
				continue
			}
			return err
		}
	}
}

// renderAndSubmit renders one tile with seed = task_id*7919+17 and
// submits the encoded result (§4.7).
func (w *Worker) renderAndSubmit(ctx context.Context, task rpcapi.RenderTask) error {
	seed := uint32(int64(task.Tile.TaskID)*7919 + 17)
	pixels := render.RenderTile(w.world.Root, w.cam, task.Tile.X0, task.Tile.Y0, task.Tile.Width, task.Tile.Height, task.SamplesPerPixel, task.MaxDepth, seed)

	data := encodePixels(pixels)
	_, err := w.transport.SubmitResult(ctx, rpcapi.SubmitResultRequest{
		WorkerID:  w.workerID,
		Tile:      task.Tile,
		PixelData: data,
	})
	if err != nil {
		return fmt.Errorf("worker: submitting result for task %d: %w", task.Tile.TaskID, err)
	}
	return nil
}

// encodePixels flattens colors into a w*h*3 byte buffer, one byte per
// channel, computed as floor(255.999*channel) per §4.7. Values are
// clamped into [0,255] after scaling so an emissive pixel above 1.0
// cannot overflow a byte.
func encodePixels(pixels []vec.Color) []byte {
	out := make([]byte, 0, len(pixels)*3)
	for _, p := range pixels {
		out = append(out, encodeChannel(p.X), encodeChannel(p.Y), encodeChannel(p.Z))
	}
	return out
}

func encodeChannel(v float64) byte {
	scaled := math.Floor(255.999 * v)
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 255 {
		scaled = 255
	}
	return byte(scaled)
}
