// Command coordinator decomposes a scene file into tiles, serves the
// four-endpoint coordination protocol over grpcx, waits for every tile
// to be rendered, and writes the assembled image as a PPM file (§6).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/gazed/pathtrace/coordinator"
	"github.com/gazed/pathtrace/ppm"
	"github.com/gazed/pathtrace/render"
	"github.com/gazed/pathtrace/rpcapi"
	"github.com/gazed/pathtrace/scene"
	"github.com/gazed/pathtrace/transport/grpcx"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.Default()

	scenePath := flag.String("scene", "", "path to the scene description file (required)")
	outputPath := flag.String("output", "output.ppm", "path to write the rendered PPM image")
	width := flag.Int("width", 1200, "output image width")
	height := flag.Int("height", 800, "output image height")
	port := flag.Int("port", 50051, "TCP port to serve the coordination protocol on")
	samples := flag.Int("samples", 100, "samples per pixel")
	depth := flag.Int("depth", 50, "maximum ray bounce depth")
	tileSize := flag.Int("tile-size", 64, "tile edge length in pixels")
	flag.Parse()

	if *scenePath == "" {
		logger.Error("--scene is required")
		return 1
	}

	f, err := os.Open(*scenePath)
	if err != nil {
		logger.Error("opening scene file", "error", err)
		return 1
	}
	defer f.Close()

	parsed, err := scene.Parse(f, logger)
	if err != nil {
		logger.Error("parsing scene file", "error", err)
		return 1
	}

	cfg := render.NewConfig(
		render.WithImageSize(*width, *height),
		render.WithTileSize(*tileSize),
		render.WithSamples(*samples),
		render.WithMaxDepth(*depth),
	)

	flat, err := scene.Serialize(parsed)
	if err != nil {
		logger.Error("serializing scene", "error", err)
		return 1
	}
	sceneBytes, err := scene.EncodeFlat(flat)
	if err != nil {
		logger.Error("encoding scene", "error", err)
		return 1
	}

	tasks := toRPCTasks(render.BuildTasks(cfg))
	rpcCfg := rpcapi.RenderConfig{
		ImageWidth:      cfg.ImageWidth,
		ImageHeight:     cfg.ImageHeight,
		TileSize:        cfg.TileSize,
		SamplesPerPixel: cfg.SamplesPerPixel,
		MaxDepth:        cfg.MaxDepth,
	}

	coord := coordinator.New(sceneBytes, rpcCfg, tasks, coordinator.WithLogger(logger))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		logger.Error("listening", "port", *port, "error", err)
		return 1
	}
	server := grpcx.NewServer(coord)
	go func() {
		if err := server.Serve(lis); err != nil {
			logger.Error("grpc server exited", "error", err)
		}
	}()

	logger.Info("coordinator serving", "port", *port, "total_tiles", len(tasks))
	pixels, w, h := coord.WaitUntilDone()
	server.GracefulStop()

	out, err := os.Create(*outputPath)
	if err != nil {
		logger.Error("creating output file", "error", err)
		return 1
	}
	defer out.Close()

	if err := ppm.Write(out, w, h, pixels); err != nil {
		logger.Error("writing output image", "error", err)
		return 1
	}

	logger.Info("render complete", "output", *outputPath)
	return 0
}

func toRPCTasks(tasks []render.RenderTask) []rpcapi.RenderTask {
	out := make([]rpcapi.RenderTask, len(tasks))
	for i, t := range tasks {
		out[i] = rpcapi.RenderTask{
			Tile: rpcapi.Tile{
				X0: t.Tile.X0, Y0: t.Tile.Y0,
				Width: t.Tile.Width, Height: t.Tile.Height,
				TaskID: t.Tile.TaskID,
			},
			SamplesPerPixel: t.SamplesPerPixel,
			MaxDepth:        t.MaxDepth,
		}
	}
	return out
}
