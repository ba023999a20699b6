// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command endpoint-router loads a router configuration, binds its
// ports to a transport, and forwards messages by prefix until it
// receives a terminating signal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/swift-nav/endpoint-router/internal/config"
	"github.com/swift-nav/endpoint-router/internal/logging"
	"github.com/swift-nav/endpoint-router/internal/router"
)

func main() {
	configFile := flag.String("file", "", "path to the router YAML configuration (required)")
	name := flag.String("name", "", "instance name, used for logging and metric labels (required)")
	metricsAddr := flag.String("metrics-addr", ":9120", "address to serve /metrics on")
	print := flag.Bool("print", false, "parse and print the resolved configuration, then exit")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	sbp := flag.Bool("sbp", false, "enable SBP framing on every port instead of the default none framer")
	flag.Parse()

	if *configFile == "" {
		log.Fatal("endpoint-router: -file is required")
	}
	if *name == "" {
		log.Fatal("endpoint-router: -name is required")
	}

	logger := logging.NewStderr(*name, *debug)

	if *print {
		cfg, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("endpoint-router: loading config: %v", err)
		}
		if err := cfg.Dump(os.Stdout); err != nil {
			log.Fatalf("endpoint-router: printing config: %v", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := router.New(ctx, *configFile, router.Options{
		Name:     *name,
		ForceSBP: *sbp,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("endpoint-router: %v", err)
	}
	defer r.Close()

	go func() {
		logger.Info("serving metrics on %s", *metricsAddr)
		mux := http.NewServeMux()
		mux.Handle("/metrics", r.MetricsHandler())
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server exited: %v", err)
		}
	}()

	logger.Info("router %q running with %d ports", *name, len(r.Config().Ports))
	if err := r.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "endpoint-router: %v\n", err)
		os.Exit(1)
	}
}
