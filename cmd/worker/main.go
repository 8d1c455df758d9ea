// Command worker registers with a coordinator, then pulls, renders and
// submits tiles until none remain (§4.7).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/gazed/pathtrace/transport/grpcx"
	"github.com/gazed/pathtrace/worker"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.Default()

	address := flag.String("address", "localhost:50051", "coordinator address (host:port)")
	flag.Parse()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}

	client, err := grpcx.Dial(*address)
	if err != nil {
		logger.Error("dialing coordinator", "address", *address, "error", err)
		return 1
	}
	defer client.Close()

	w := worker.New(client, hostname, worker.WithLogger(logger))
	if err := w.Run(context.Background()); err != nil {
		logger.Error("worker exited with an error", "error", err)
		return 1
	}

	logger.Info("worker finished: no more tiles")
	return 0
}
