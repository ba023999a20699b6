// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/swift-nav/endpoint-router/internal/config"
	"github.com/swift-nav/endpoint-router/internal/endpoint"
	"github.com/swift-nav/endpoint-router/internal/loop"
	"github.com/swift-nav/endpoint-router/internal/logging"
	"github.com/swift-nav/endpoint-router/internal/metrics"
	"github.com/swift-nav/endpoint-router/internal/router/framer"
)

// Options configures a Router at creation time. Factory and Registerer
// default to a real NATS factory and the global Prometheus registry
// when left zero; tests substitute an in-memory factory and a scratch
// registry.
type Options struct {
	Name       string
	ForceSBP   bool // --sbp: enable SBP framing on every port
	Factory    endpoint.Factory
	Registerer prometheus.Registerer
	Logger     *logging.Logger
}

// Router owns one instance's full runtime: the resolved config graph,
// bound endpoints, per-port dispatch caches, and the event loop that
// drives them. Construct with New; tear down with Close.
type Router struct {
	name string

	cfg      *config.RouterConfig
	bindings *Bindings
	caches   map[string]*RuleCache
	runtimes map[string]*PortRuntime

	loop   *loop.Loop
	coll   *metrics.Collector
	logger *logging.Logger
}

// New loads path, binds every port's endpoints, builds every port's
// dispatch cache, and attaches each subscriber to a fresh event loop.
// Any failure — parse, bind, or cache-build — aborts startup and tears
// down whatever was already created.
func New(ctx context.Context, path string, opts Options) (*Router, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("router: loading config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewStderr(opts.Name, false)
	}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	coll := metrics.NewCollector(logger.WithComponent("metrics"), reg)

	factory := opts.Factory
	if factory == nil {
		nf, err := endpoint.NewNATSFactory("", 0)
		if err != nil {
			return nil, fmt.Errorf("router: connecting default transport: %w", err)
		}
		factory = nf
	}

	bindings, err := Bind(ctx, cfg, factory, coll.RecordBackpressureDrop)
	if err != nil {
		return nil, err
	}

	framerName := "none"
	if opts.ForceSBP {
		framerName = "sbp"
	}
	framerReg := framer.NewRegistry()

	caches := make(map[string]*RuleCache, len(cfg.Ports))
	runtimes := make(map[string]*PortRuntime, len(cfg.Ports))
	for i := range cfg.Ports {
		port := &cfg.Ports[i]

		fr, err := framerReg.Create(framerName)
		if err != nil {
			bindings.Close()
			return nil, fmt.Errorf("router: port %q: %w", port.Name, err)
		}

		cache, err := BuildCache(port, bindings.Publishers, fr)
		if err != nil {
			bindings.Close()
			return nil, err
		}
		caches[port.Name] = cache
		coll.SetPortShape(port.Name, cache.NoFramerCount > 0, len(cache.DefaultAccept))

		runtimes[port.Name] = NewPortRuntime(cache, bindings.Subscribers[port.Name], coll)
	}

	l := loop.New()
	for name, rt := range runtimes {
		sub := bindings.Subscribers[name]
		rt := rt
		l.AddReader(sub.Notify(), rt.OnWakeup)
	}
	l.AddTimer(time.Second, func() {
		logger.Debug("metrics heartbeat for router %q", opts.Name)
	})

	return &Router{
		name:     opts.Name,
		cfg:      cfg,
		bindings: bindings,
		caches:   caches,
		runtimes: runtimes,
		loop:     l,
		coll:     coll,
		logger:   logger,
	}, nil
}

// Run blocks until the loop stops (Close, context cancellation, or a
// terminating signal).
func (r *Router) Run(ctx context.Context) error {
	return r.loop.Run(ctx)
}

// Close stops the event loop and tears down endpoints. Per the
// lifecycle ordering caches are logically retired first (they are
// simply never touched again once the loop stops), then endpoints;
// the config graph has no separate teardown since it owns no external
// resources.
func (r *Router) Close() error {
	r.loop.Stop()
	return r.bindings.Close()
}

// Config returns the resolved configuration graph this Router was
// built from.
func (r *Router) Config() *config.RouterConfig { return r.cfg }

// MetricsHandler returns the HTTP handler to mount at /metrics.
func (r *Router) MetricsHandler() http.Handler { return r.coll.Handler() }
