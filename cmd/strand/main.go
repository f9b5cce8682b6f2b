// Spins up the strand server: a cursor-based text list reachable over the
// Redis protocol.

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nobletooth/strand/pkg/port"
	"github.com/nobletooth/strand/pkg/utils"
)

var printVersion = flag.Bool("print_version", false, "Print the version and exit.")

func main() {
	flag.Parse()
	utils.InitLogging()

	if *printVersion {
		slog.Info("Strand build info.", "version", utils.Version, "commit", utils.Commit, "build", utils.BuildTime)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, os.Kill)

	go func() { // Listen for OS interrupts in the background.
		sig := <-signals
		slog.Info("Received termination signal, cancelling server context.", "signal", sig)
		cancel()
	}()

	l, err := port.BuildList()
	if err != nil {
		slog.Error("Failed to seed the list.", "err", err)
		os.Exit(1)
	}
	if err := port.RunServer(ctx, l); err != nil {
		slog.Error("Strand server stopped.", "err", err)
		os.Exit(1)
	}
}
