// learnpath - course tracking and recommendations from the terminal.
//
// Learners register, enroll in catalog courses, record progress and ratings,
// and get courses ranked on rating, recency, popularity and their interests.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/learnpath/internal/cli"
	"github.com/asteroid-belt/learnpath/internal/config"
	"github.com/asteroid-belt/learnpath/internal/db"
	"github.com/asteroid-belt/learnpath/internal/learning"
	"github.com/asteroid-belt/learnpath/internal/log"
	"github.com/asteroid-belt/learnpath/internal/telemetry"
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
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs, log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Close()
	}()

	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = database.Close()
	}()

	// Use persistent tracking ID from database
	telemetryClient := telemetry.NewNoop()
	if cfg.Telemetry.Enabled {
		telemetryClient = telemetry.New(database)
	}
	defer telemetryClient.Close()

	svc, st, err := learning.Open(cfg, database, telemetryClient, log.Component("learning"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load courses: %v\n", err)
		os.Exit(1)
	}
	telemetryClient.TrackAppStarted("cli", st.Courses.Loaded)

	if err := cli.Execute(ctx, svc, telemetryClient); err != nil {
		os.Exit(1)
	}
}
