// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package router

import (
	"context"
	"fmt"

	"github.com/swift-nav/endpoint-router/internal/config"
	"github.com/swift-nav/endpoint-router/internal/endpoint"
)

// Bindings holds the live endpoints created for every port in a
// config, keyed by port name.
type Bindings struct {
	Publishers  map[string]endpoint.Publisher
	Subscribers map[string]endpoint.Subscriber
}

// Bind creates a publisher and a subscriber for every port in cfg, in
// order, and installs a back-pressure callback on each publisher. If
// any creation fails, every endpoint created so far in this call is
// closed before returning the error, so a partial bind never leaks.
//
// The back-pressure callback is installed exactly once, on the
// publisher; an earlier source version of this logic set it twice on
// pub_ept and never on sub_ept; a subscriber never back-pressures, so
// that double-set accomplished nothing and is not reproduced here.
func Bind(ctx context.Context, cfg *config.RouterConfig, factory endpoint.Factory, onDrop func(port string, droppedBytes uint64)) (*Bindings, error) {
	b := &Bindings{
		Publishers:  make(map[string]endpoint.Publisher, len(cfg.Ports)),
		Subscribers: make(map[string]endpoint.Subscriber, len(cfg.Ports)),
	}

	for _, port := range cfg.Ports {
		pub, err := factory.CreatePublisher(ctx, port.PubAddr)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("router: port %q: creating publisher at %s: %w", port.Name, port.PubAddr, err)
		}
		name := port.Name
		pub.SetBackpressureCallback(func(dropped uint64) {
			onDrop(name, dropped)
		})
		b.Publishers[port.Name] = pub

		sub, err := factory.CreateSubscriber(ctx, port.SubAddr)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("router: port %q: creating subscriber at %s: %w", port.Name, port.SubAddr, err)
		}
		b.Subscribers[port.Name] = sub
	}

	return b, nil
}

// Close tears down every endpoint this Bindings holds. Errors are
// collected but do not stop the sweep; every endpoint gets a Close
// attempt.
func (b *Bindings) Close() error {
	var firstErr error
	for _, pub := range b.Publishers {
		if err := pub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, sub := range b.Subscribers {
		if err := sub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
