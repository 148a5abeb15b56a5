// Patrol - offline-first NFC check-in.
//
// Records tag reads as durable local check-ins and reconciles them with
// a remote directory whenever connectivity allows.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/qsswgl/patrol/internal/cli"
	"github.com/qsswgl/patrol/internal/config"
	"github.com/qsswgl/patrol/internal/db"
	"github.com/qsswgl/patrol/internal/log"
	"github.com/qsswgl/patrol/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs); err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Close() }()

	// Open the database for the persistent tracking ID
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		os.Exit(1)
	}

	telemetryClient := telemetry.New(database)

	unsynced, _ := database.CountUnsynced()
	telemetryClient.TrackAppStarted("cli", int(unsynced))

	// Commands open their own connection; release this one before
	// command execution so SQLite sees a single writer.
	_ = database.Close()

	err = cli.Execute(ctx, telemetryClient)
	telemetryClient.Close()
	if err != nil {
		os.Exit(1)
	}
}
