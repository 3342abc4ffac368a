// Package main provides the learnpath-mcp server.
//
// learnpath-mcp exposes the course catalog, learner profiles, ratings and
// recommendations via the Model Context Protocol.
//
// Usage:
//
//	learnpath-mcp [flags]
//
// The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/learnpath/internal/config"
	"github.com/asteroid-belt/learnpath/internal/db"
	"github.com/asteroid-belt/learnpath/internal/learning"
	"github.com/asteroid-belt/learnpath/internal/log"
	"github.com/asteroid-belt/learnpath/internal/mcp"
	"github.com/asteroid-belt/learnpath/internal/telemetry"
	"github.com/asteroid-belt/learnpath/pkg/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("learnpath-mcp %s\n", version.Version)
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		printHelp()
		os.Exit(0)
	}

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

	// stdout carries the protocol, so console output goes to stderr.
	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs, log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Console: os.Stderr}); err != nil {
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
	telemetryClient.TrackAppStarted("mcp", st.Courses.Loaded)

	server := mcp.NewServer(svc, telemetryClient)
	if err := server.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `learnpath-mcp - MCP server for learnpath

USAGE:
    learnpath-mcp [FLAGS]

FLAGS:
    -h, --help       Print this help message
    -v, --version    Print version information

DESCRIPTION:
    learnpath-mcp is a Model Context Protocol (MCP) server that exposes the
    learnpath course catalog, learner profiles and recommendations to
    MCP-compatible clients.

    The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).
    It reads the same data directory and config as the learnpath CLI.

CONFIGURATION:
    {
      "mcpServers": {
        "learnpath": {
          "type": "stdio",
          "command": "learnpath-mcp"
        }
      }
    }

TOOLS PROVIDED:
    learnpath_recommend      Recommend courses for a learner
    learnpath_list_courses   List catalog courses, optionally by category
    learnpath_get_course     Get course details, rating and top reviews
    learnpath_get_learner    Get a learner's profile and progress
    learnpath_rate_course    Rate a course for a learner
    learnpath_top_reviews    Get the most detailed reviews of a course

RESOURCES PROVIDED:
    learnpath://course/{id}           Course card as markdown
    learnpath://course/{id}/metadata  Course metadata as JSON
`
	fmt.Print(help)
}
